package domain

import (
	"fmt"
	"strings"
	"time"
)

// Document is a unit of source documentation as ingested into the corpus.
// A Document is immutable once indexed; re-ingesting the same ID supersedes it.
type Document struct {
	// ID is the stable identifier for the document.
	ID string

	// Title is the human-readable title shown in citations.
	Title string

	// URL is the canonical location of the page.
	URL string

	// Content is the full raw text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs (category, source path).
	Metadata map[string]any

	// UpdatedAt is when the source was last modified.
	UpdatedAt time.Time

	// IndexedAt is when this version was ingested.
	IndexedAt time.Time
}

// Validate reports ErrInvalidDocument if d cannot be indexed.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: %s has no text", ErrInvalidDocument, d.ID)
	}
	return nil
}

// Chunk is a contiguous slice of a document's text used as the retrieval unit.
// Start and End are byte offsets into the owning Document.Content and always
// satisfy 0 <= Start < End <= len(Content).
type Chunk struct {
	// ID is the chunk identifier, see ChunkID.
	ID string

	// DocumentID references the owning Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Start is the byte offset of the first character.
	Start int

	// End is the byte offset one past the last character.
	End int

	// Overlap is the number of leading bytes shared with the previous chunk.
	Overlap int

	// Content is Document.Content[Start:End].
	Content string

	// TokenCount is the number of tokens beginning inside the chunk.
	TokenCount int

	// Embedding is the vector for this chunk, nil until embedded.
	Embedding []float32

	// EmbeddingModel identifies the model that produced Embedding.
	EmbeddingModel string
}

// ChunkID returns the deterministic chunk identifier for a position.
// IDs sort in document order for documents of fewer than 10000 chunks.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s#%04d", documentID, position)
}

// DocumentIDFromChunkID returns the document part of a chunk id.
func DocumentIDFromChunkID(chunkID string) string {
	if i := strings.LastIndexByte(chunkID, '#'); i >= 0 {
		return chunkID[:i]
	}
	return chunkID
}
