package status

import (
	"fmt"
	"strings"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// Header summarises the index above the console.
type Header struct {
	styles *styles.Styles
	status *domain.IndexStatus
	err    error
}

// NewHeader creates an empty header.
func NewHeader(s *styles.Styles) *Header {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Header{styles: s}
}

// SetStatus records a status snapshot, or the error fetching it.
func (h *Header) SetStatus(status *domain.IndexStatus, err error) {
	h.status = status
	h.err = err
}

// Status returns the last snapshot.
func (h *Header) Status() *domain.IndexStatus {
	return h.status
}

// View renders the header line.
func (h *Header) View() string {
	switch {
	case h.err != nil:
		return h.styles.Error.Render("Index status unavailable: " + h.err.Error())
	case h.status == nil:
		return h.styles.Header.Render("Checking index...")
	}

	s := h.status
	parts := []string{
		fmt.Sprintf("%d documents", s.Documents),
		fmt.Sprintf("%d chunks", s.Chunks),
		fmt.Sprintf("%s index", s.IndexKind),
		"embedding " + s.EmbeddingModel,
	}
	if s.GenerationModel != "" {
		parts = append(parts, "llm "+s.GenerationModel)
	} else {
		parts = append(parts, "no llm")
	}
	line := h.styles.Header.Render(strings.Join(parts, " · "))

	switch {
	case !s.EmbeddingReachable:
		return line + "  " + h.styles.Error.Render("embedding unreachable")
	case s.Chunks == 0:
		return line + "  " + h.styles.Warning.Render("nothing indexed, run 'fsquery ingest'")
	case s.GenerationModel != "" && !s.GenerationReachable:
		return line + "  " + h.styles.Warning.Render("llm unreachable, answers show excerpts")
	default:
		return line + "  " + h.styles.Success.Render("ready")
	}
}
