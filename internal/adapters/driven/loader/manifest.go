package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// Manifest describes a documentation corpus as a list of sources.
//
//	base_url: https://api.freshservice.com/
//	sources:
//	  - path: docs/tickets
//	    category: Ticket Management
//	    include: ["**/*.md"]
//	    exclude: ["drafts/**"]
type Manifest struct {
	BaseURL string           `yaml:"base_url"`
	Sources []ManifestSource `yaml:"sources"`

	dir string
}

// ManifestSource is one directory of documentation.
type ManifestSource struct {
	// Path is the directory, relative to the manifest file.
	Path string `yaml:"path"`

	// BaseURL overrides the manifest base URL for this source.
	BaseURL string `yaml:"base_url"`

	// Category tags every document from this source.
	Category string `yaml:"category"`

	// Include lists glob patterns; DefaultPattern when empty.
	Include []string `yaml:"include"`

	// Exclude lists glob patterns to skip.
	Exclude []string `yaml:"exclude"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest %s: %w", domain.ErrInvalidInput, path, err)
	}
	if len(m.Sources) == 0 {
		return nil, fmt.Errorf("%w: manifest %s lists no sources", domain.ErrInvalidInput, path)
	}
	for i, src := range m.Sources {
		if src.Path == "" {
			return nil, fmt.Errorf("%w: manifest source %d has no path", domain.ErrInvalidInput, i)
		}
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// Loaders returns one loader per source, with paths resolved against the
// manifest's directory.
func (m *Manifest) Loaders() []*Loader {
	loaders := make([]*Loader, 0, len(m.Sources))
	for _, src := range m.Sources {
		root := src.Path
		if !filepath.IsAbs(root) {
			root = filepath.Join(m.dir, root)
		}
		base := src.BaseURL
		if base == "" {
			base = m.BaseURL
		}
		opts := []Option{WithExclude(src.Exclude...)}
		if base != "" {
			opts = append(opts, WithBaseURL(base))
		}
		if src.Category != "" {
			opts = append(opts, WithCategory(src.Category))
		}
		loaders = append(loaders, New(root, opts...))
	}
	return loaders
}

// Load loads every source in order. A document reachable from two sources is
// returned once, from the first.
func (m *Manifest) Load(ctx context.Context) ([]domain.Document, error) {
	seen := make(map[string]struct{})
	var docs []domain.Document
	for i, l := range m.Loaders() {
		loaded, err := l.LoadAll(ctx, m.Sources[i].Include...)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", m.Sources[i].Path, err)
		}
		for _, d := range loaded {
			if _, dup := seen[d.ID]; dup {
				continue
			}
			seen[d.ID] = struct{}{}
			docs = append(docs, d)
		}
	}
	return docs, nil
}
