package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverService turns a query into ranked candidate chunks: embed the
// query, over-fetch nearest neighbours, optionally fuse lexical overlap, then
// cap results per document.
type RetrieverService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	settings domain.RetrievalSettings
	retry    RetryPolicy
}

// NewRetrieverService creates a new retriever.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	settings domain.RetrievalSettings,
	retry RetryPolicy,
) *RetrieverService {
	return &RetrieverService{
		embedder: embedder,
		index:    index,
		docStore: docStore,
		settings: settings,
		retry:    retry,
	}
}

// Retrieve returns up to topN candidates ordered by fused score descending,
// ties by lower chunk id. alpha overrides the configured fusion weight when
// non-nil. Fewer than topN candidates are returned when fewer qualify.
func (r *RetrieverService) Retrieve(
	ctx context.Context, text string, topN int, alpha *float64,
) ([]domain.Candidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidArgument)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", domain.ErrInvalidArgument, topN)
	}
	a := r.settings.Alpha
	if alpha != nil {
		a = *alpha
	}
	if a < 0 || a > 1 {
		return nil, fmt.Errorf("%w: alpha must be in [0,1], got %g", domain.ErrInvalidArgument, a)
	}
	if r.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Retrieve")
	log := logger.With("top_n", topN, "alpha", a)

	vector, err := withRetry(ctx, r.retry, "embed query", func(ctx context.Context) ([]float32, error) {
		return r.embedder.Embed(ctx, text)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	m := topN * max(r.settings.OverFetch, 1)
	hits, err := r.index.Query(ctx, vector, m)
	if err != nil {
		return nil, fmt.Errorf("vector index: %w", err)
	}
	log.Debug("index returned %d of %d requested", len(hits), m)
	if len(hits) == 0 {
		return []domain.Candidate{}, nil
	}

	candidates, err := r.hydrate(ctx, hits)
	if err != nil {
		return nil, err
	}

	var queryTokens map[string]struct{}
	if a < 1 {
		queryTokens = lexicalTokens(text)
	}
	for i := range candidates {
		c := &candidates[i]
		if queryTokens != nil {
			c.Lexical = lexicalScore(queryTokens, c.Chunk.Content)
		}
		c.Fused = clamp01(Fuse(a, c.Similarity, c.Lexical))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Fused != candidates[j].Fused {
			return candidates[i].Fused > candidates[j].Fused
		}
		return candidates[i].Chunk.ID < candidates[j].Chunk.ID
	})

	result := capPerDocument(candidates, r.settings.PerDocumentCap, topN)
	log.Debug("returning %d candidates", len(result))
	return result, nil
}

// hydrate loads chunk text and document metadata for each hit. Hits whose
// chunk or document has disappeared since indexing are skipped.
func (r *RetrieverService) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.Candidate, error) {
	docs := make(map[string]*domain.Document)
	candidates := make([]domain.Candidate, 0, len(hits))

	for _, hit := range hits {
		chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("skipping stale hit %s", hit.ChunkID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load chunk %s: %w", hit.ChunkID, err)
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = r.docStore.GetDocument(ctx, chunk.DocumentID)
			if errors.Is(err, domain.ErrNotFound) {
				doc = nil
			} else if err != nil {
				return nil, fmt.Errorf("load document %s: %w", chunk.DocumentID, err)
			}
			docs[chunk.DocumentID] = doc
		}
		if doc == nil {
			continue
		}

		c := *chunk
		c.Embedding = nil
		candidates = append(candidates, domain.Candidate{
			Chunk:         c,
			DocumentTitle: doc.Title,
			DocumentURL:   doc.URL,
			Similarity:    hit.Similarity,
		})
	}
	return candidates, nil
}

// capPerDocument walks candidates in order, keeping at most perDoc from any
// one document, and stops at limit.
func capPerDocument(candidates []domain.Candidate, perDoc, limit int) []domain.Candidate {
	counts := make(map[string]int)
	out := make([]domain.Candidate, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		if perDoc > 0 && counts[c.Chunk.DocumentID] >= perDoc {
			continue
		}
		counts[c.Chunk.DocumentID]++
		out = append(out, c)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
