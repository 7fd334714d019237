package driving

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// DocumentService browses the indexed corpus.
type DocumentService interface {
	// List returns all indexed documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Chunks returns a document's chunks in order.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Open opens the document's URL in the default application.
	Open(ctx context.Context, documentID string) error
}
