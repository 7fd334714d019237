package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

func newDoc(id, title string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Title:     title,
		URL:       "https://support.freshservice.com/" + id,
		Content:   "body of " + title,
		IndexedAt: time.Unix(1700000000, 0),
	}
}

func newChunks(docID string, n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{
			ID:         domain.ChunkID(docID, i),
			DocumentID: docID,
			Position:   i,
			Content:    "text",
			Embedding:  []float32{1, 0},
		}
	}
	return out
}

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_SaveDocument_Success(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := newDoc("doc-1", "Create a ticket")
	doc.Metadata = map[string]any{"category": "Ticket Management"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, *doc, *got)
}

func TestDocumentStore_SaveDocument_Nil(t *testing.T) {
	store := NewDocumentStore()
	assert.ErrorIs(t, store.SaveDocument(context.Background(), nil), domain.ErrInvalidInput)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()
	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunks_Replaces(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 4)))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 2)))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)

	_, err = store.GetChunk(ctx, "doc-1#0003")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := store.GetChunk(ctx, "doc-1#0001")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Position)
}

func TestDocumentStore_SaveChunks_Empty(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 2)))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", nil))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_SaveChunks_WrongDocument(t *testing.T) {
	store := NewDocumentStore()
	err := store.SaveChunks(context.Background(), "doc-1", newChunks("doc-2", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_GetChunks_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 1)))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	chunks[0].Content = "mutated"

	again, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "text", again[0].Content)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, newDoc("doc-1", "A")))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 2)))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	chunks, _ := store.GetChunks(ctx, "doc-1")
	assert.Empty(t, chunks)

	assert.ErrorIs(t, store.DeleteDocument(ctx, "doc-1"), domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments_SortedByTitle(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, newDoc("3", "SSO")))
	require.NoError(t, store.SaveDocument(ctx, newDoc("1", "Agents")))
	require.NoError(t, store.SaveDocument(ctx, newDoc("2", "Business rules")))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"Agents", "Business rules", "SSO"},
		[]string{docs[0].Title, docs[1].Title, docs[2].Title})
}

func TestDocumentStore_EachChunk(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveChunks(ctx, "b", newChunks("b", 1)))
	require.NoError(t, store.SaveChunks(ctx, "a", newChunks("a", 2)))

	var ids []string
	require.NoError(t, store.EachChunk(ctx, func(c domain.Chunk) error {
		ids = append(ids, c.ID)
		return nil
	}))
	assert.Equal(t, []string{"a#0000", "a#0001", "b#0000"}, ids)

	boom := errors.New("boom")
	err := store.EachChunk(ctx, func(domain.Chunk) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestDocumentStore_Stats(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, newDoc("doc-1", "A")))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", newChunks("doc-1", 3)))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, int64(1700000000), stats.LastIndexed)
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = store.SaveDocument(ctx, newDoc(id, id))
			_ = store.SaveChunks(ctx, id, newChunks(id, 2))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.ListDocuments(ctx)
			_, _ = store.Stats(ctx)
		}()
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Documents)
	assert.Equal(t, 40, stats.Chunks)
}
