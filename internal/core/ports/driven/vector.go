package driven

import "context"

// VectorIndex stores one vector per chunk id and answers nearest-neighbour
// queries. Implementations must allow concurrent Query calls while Upsert
// and Remove run, and a reader must observe either the old or the new vector
// for a chunk, never a partial write.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for chunkID. Idempotent by id.
	Upsert(ctx context.Context, chunkID string, embedding []float32) error

	// Query returns up to k entries ordered by similarity descending, ties by
	// lower chunk id. k <= 0 fails with domain.ErrInvalidArgument; an empty
	// index returns an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]VectorHit, error)

	// Remove deletes the entry for chunkID. No-op if absent.
	Remove(ctx context.Context, chunkID string) error

	// Len returns the number of entries.
	Len() int

	// Dimensions returns the fixed dimensionality, or 0 before the first upsert.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity mapped to [0,1].
	Similarity float64
}
