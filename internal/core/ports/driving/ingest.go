package driving

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// IngestService drives chunking, embedding and indexing.
type IngestService interface {
	// Ingest indexes one document, superseding any earlier version with the same ID.
	// Fails with domain.ErrInvalidDocument for empty input.
	Ingest(ctx context.Context, doc *domain.Document) (*IngestReport, error)

	// IngestAll indexes documents one at a time and joins their errors.
	IngestAll(ctx context.Context, docs []domain.Document) ([]IngestReport, error)

	// Remove deletes a document and its vectors.
	Remove(ctx context.Context, documentID string) error

	// Rebuild loads every persisted chunk vector into the vector index.
	Rebuild(ctx context.Context) (int, error)
}

// IngestReport summarises one ingested document.
type IngestReport struct {
	DocumentID string
	Title      string
	Chunks     int
	Removed    int
}
