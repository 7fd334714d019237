// Package markdown renders answer and document text for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown with glamour, keeping one term renderer per wrap
// width. A fixed style is used because querying the terminal background
// while bubbletea owns it garbles input.
type Renderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewRenderer creates a renderer using a glamour standard style such as
// "dark" or "light". Empty means "dark".
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render wraps text to width. It returns text unchanged when width is not
// positive or rendering fails.
func (r *Renderer) Render(text string, width int) string {
	if width <= 0 || strings.TrimSpace(text) == "" {
		return text
	}

	tr, err := r.renderer(width)
	if err != nil {
		return text
	}
	out, err := tr.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}
