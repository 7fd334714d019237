package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

const (
	// embedBatchSize bounds texts per provider request.
	embedBatchSize = 32

	// embedParallelism bounds concurrent batch requests per document.
	embedParallelism = 4
)

// IngestService chunks documents, embeds their chunks and publishes the
// vectors. Writes are serialised; queries keep reading the index throughout
// and see each chunk's old or new vector, never a mix within one vector.
type IngestService struct {
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	retry    RetryPolicy

	mu sync.Mutex
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	retry RetryPolicy,
) *IngestService {
	return &IngestService{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		docStore: docStore,
		retry:    retry,
	}
}

// Ingest indexes doc, superseding any earlier version with the same ID.
// Chunks of the old version that no longer exist are removed from the index.
func (s *IngestService) Ingest(ctx context.Context, doc *domain.Document) (*driving.IngestReport, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.With("document", doc.ID)

	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.ID, err)
	}
	log.Debug("split into %d chunks with %s", len(chunks), s.chunker.Name())

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	previous, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load previous chunks: %w", err)
	}

	stored := *doc
	if stored.IndexedAt.IsZero() {
		stored.IndexedAt = time.Now().UTC()
	}
	if err := s.docStore.SaveDocument(ctx, &stored); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	current := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		current[c.ID] = struct{}{}
	}
	removed := 0
	for _, c := range previous {
		if _, ok := current[c.ID]; ok {
			continue
		}
		if err := s.index.Remove(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("remove stale vector %s: %w", c.ID, err)
		}
		removed++
	}

	for _, c := range chunks {
		if err := s.index.Upsert(ctx, c.ID, c.Embedding); err != nil {
			return nil, fmt.Errorf("index chunk %s: %w", c.ID, err)
		}
	}

	log.Info("indexed %d chunks (%d stale removed)", len(chunks), removed)
	return &driving.IngestReport{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Chunks:     len(chunks),
		Removed:    removed,
	}, nil
}

// IngestAll indexes docs one at a time. A failed document does not stop the
// rest; the returned error joins every failure.
func (s *IngestService) IngestAll(ctx context.Context, docs []domain.Document) ([]driving.IngestReport, error) {
	reports := make([]driving.IngestReport, 0, len(docs))
	var errs []error
	for i := range docs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := s.Ingest(ctx, &docs[i])
		if err != nil {
			logger.Warn("failed to ingest %s: %v", docs[i].ID, err)
			errs = append(errs, fmt.Errorf("%s: %w", docs[i].ID, err))
			continue
		}
		reports = append(reports, *report)
	}
	return reports, errors.Join(errs...)
}

// Remove deletes a document, its chunks and their vectors.
func (s *IngestService) Remove(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load chunks: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	for _, c := range chunks {
		if err := s.index.Remove(ctx, c.ID); err != nil {
			return fmt.Errorf("remove vector %s: %w", c.ID, err)
		}
	}
	logger.Info("removed document %s (%d chunks)", documentID, len(chunks))
	return nil
}

// Rebuild loads every persisted chunk vector into the index and returns how
// many were loaded. Vectors from a different embedding model than the
// configured one are left out with a warning; re-ingesting their documents
// replaces them.
func (s *IngestService) Rebuild(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model := ""
	if s.embedder != nil {
		model = s.embedder.ModelName()
	}

	loaded := 0
	stale := make(map[string]int)
	err := s.docStore.EachChunk(ctx, func(c domain.Chunk) error {
		if len(c.Embedding) == 0 {
			return nil
		}
		if model != "" && c.EmbeddingModel != "" && c.EmbeddingModel != model {
			stale[c.DocumentID]++
			return nil
		}
		if err := s.index.Upsert(ctx, c.ID, c.Embedding); err != nil {
			return fmt.Errorf("index chunk %s: %w", c.ID, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, err
	}
	if len(stale) > 0 {
		logger.Warn("%v: %d documents were embedded with another model than %q and are not searchable; re-ingest them",
			domain.ErrModelMismatch, len(stale), model)
	}
	logger.Debug("rebuilt vector index with %d chunks", loaded)
	return loaded, nil
}

// embedChunks fills Embedding and EmbeddingModel on every chunk, embedding
// batches concurrently.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	model := s.embedder.ModelName()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedParallelism)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}
			vectors, err := withRetry(gctx, s.retry, "embed chunks", func(ctx context.Context) ([][]float32, error) {
				return s.embedder.EmbedBatch(ctx, texts)
			})
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("%w: got %d embeddings for %d chunks",
					domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = vectors[i]
				batch[i].EmbeddingModel = model
			}
			return nil
		})
	}
	return g.Wait()
}
