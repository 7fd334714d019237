package driven

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// DocumentStore is the corpus store: documents, their chunks and the chunk
// vectors needed to rebuild an in-process index at startup.
type DocumentStore interface {
	// SaveDocument stores or supersedes a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks replaces all chunks of documentID.
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents ordered by title.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// EachChunk calls fn for every stored chunk, embeddings included.
	// Iteration stops at the first error fn returns.
	EachChunk(ctx context.Context, fn func(domain.Chunk) error) error

	// Stats returns document and chunk counts and the newest IndexedAt.
	Stats(ctx context.Context) (StoreStats, error)
}

// StoreStats summarises the corpus store.
type StoreStats struct {
	Documents   int
	Chunks      int
	LastIndexed int64 // unix seconds, 0 when empty
}
