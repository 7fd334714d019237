// Package loader reads documentation files into domain documents.
//
// Markdown and plain text are read as-is; HTML pages are reduced to their main
// content and converted to markdown so code samples keep their fences. A
// document's ID is derived from its canonical URL, so loading the same page
// again supersedes the earlier version.
package loader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// DefaultPattern matches every supported file under a root.
const DefaultPattern = "**/*.{md,markdown,txt,html,htm}"

// Metadata keys set on loaded documents.
const (
	MetaPath     = "path"
	MetaFormat   = "format"
	MetaCategory = "category"
)

// Loader turns files under a root directory into documents.
type Loader struct {
	root     string
	baseURL  string
	category string
	exclude  []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithBaseURL derives document URLs from paths relative to the root,
// e.g. base https://docs.example.com/ and tickets/create.md give
// https://docs.example.com/tickets/create. Without it URLs are file:// URLs.
func WithBaseURL(base string) Option {
	return func(l *Loader) {
		l.baseURL = base
	}
}

// WithCategory tags every document with a category.
func WithCategory(category string) Option {
	return func(l *Loader) {
		l.category = category
	}
}

// WithExclude skips files matching any of the glob patterns, relative to the root.
func WithExclude(patterns ...string) Option {
	return func(l *Loader) {
		l.exclude = append(l.exclude, patterns...)
	}
}

// New creates a loader rooted at root.
func New(root string, opts ...Option) *Loader {
	l := &Loader{root: root}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", ".html", ".htm":
		return true
	default:
		return false
	}
}

// DocumentID returns the stable document ID for a canonical URL.
func DocumentID(canonicalURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonicalURL)).String()
}

// LoadAll loads every file under the root matching the patterns
// (DefaultPattern when none are given), in path order. Hidden files and
// excluded paths are skipped. Files that fail to load are logged and skipped.
func (l *Loader) LoadAll(ctx context.Context, patterns ...string) ([]domain.Document, error) {
	paths, err := l.Match(patterns...)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.LoadFile(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Match returns the supported, non-hidden, non-excluded files under the root
// matching any of the patterns, sorted.
func (l *Loader) Match(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", l.root)
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(l.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup || !l.wanted(m) {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Wanted reports whether path is a file this loader would load.
func (l *Loader) Wanted(path string) bool {
	return l.wanted(path)
}

func (l *Loader) wanted(path string) bool {
	if !Supported(path) {
		return false
	}
	rel, err := filepath.Rel(l.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if isHidden(rel) {
		return false
	}
	for _, pattern := range l.exclude {
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			return false
		}
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadFile reads one file into a document.
func (l *Loader) LoadFile(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var page parsed
	format := formatOf(path)
	switch format {
	case formatHTML:
		page, err = parseHTML(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case formatMarkdown:
		page = parseMarkdown(string(data))
	default:
		page = parsed{content: string(data)}
	}

	if strings.TrimSpace(page.content) == "" {
		return nil, fmt.Errorf("%w: %s has no text", domain.ErrInvalidDocument, path)
	}

	canonical := page.canonical
	if canonical == "" {
		canonical = l.urlFor(path)
	}
	title := page.title
	if title == "" {
		title = titleFromPath(path)
	}

	metadata := map[string]any{
		MetaPath:   path,
		MetaFormat: string(format),
	}
	if l.category != "" {
		metadata[MetaCategory] = l.category
	}

	return &domain.Document{
		ID:        DocumentID(canonical),
		Title:     title,
		URL:       canonical,
		Content:   page.content,
		Metadata:  metadata,
		UpdatedAt: info.ModTime().UTC().Truncate(time.Second),
	}, nil
}

// IDForPath returns the ID LoadFile would give the file at path when the file
// itself does not declare a canonical URL. Used for deletions, where the file
// can no longer be read.
func (l *Loader) IDForPath(path string) string {
	return DocumentID(l.urlFor(path))
}

func (l *Loader) urlFor(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if l.baseURL == "" {
		return "file://" + filepath.ToSlash(abs)
	}

	rootAbs, err := filepath.Abs(l.root)
	if err != nil {
		rootAbs = l.root
	}
	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return "file://" + filepath.ToSlash(abs)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	rel = strings.TrimSuffix(rel, "/index")
	if rel == "index" {
		rel = ""
	}

	base, err := url.Parse(l.baseURL)
	if err != nil {
		return strings.TrimSuffix(l.baseURL, "/") + "/" + rel
	}
	return base.JoinPath(rel).String()
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if name == "" {
		return path
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
