package driven

import "github.com/08nikhil/freshservice-Application/internal/core/domain"

// Chunker splits a document into ordered, overlapping chunks. It is a pure
// function of the document and its configuration.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk fails with domain.ErrInvalidDocument when doc has no text.
	Chunk(doc *domain.Document) ([]domain.Chunk, error)
}
