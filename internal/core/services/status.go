package services

import (
	"context"
	"fmt"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// statusPingTimeout bounds each provider health check.
const statusPingTimeout = 2 * time.Second

// StatusService reports live corpus and provider state.
type StatusService struct {
	docStore  driven.DocumentStore
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	llm       driven.LLMService // Optional
	indexKind domain.VectorIndexKind
}

// NewStatusService creates a new status service. embedder and llm may be nil.
func NewStatusService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	indexKind domain.VectorIndexKind,
) *StatusService {
	return &StatusService{
		docStore:  docStore,
		index:     index,
		embedder:  embedder,
		llm:       llm,
		indexKind: indexKind,
	}
}

// Status returns a fresh snapshot. Nothing is cached.
func (s *StatusService) Status(ctx context.Context) (*domain.IndexStatus, error) {
	stats, err := s.docStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("read corpus stats: %w", err)
	}

	status := &domain.IndexStatus{
		Documents: stats.Documents,
		IndexKind: s.indexKind.String(),
	}
	if stats.LastIndexed > 0 {
		status.LastUpdated = time.Unix(stats.LastIndexed, 0).UTC()
	}
	if s.index != nil {
		status.Chunks = s.index.Len()
		status.Dimensions = s.index.Dimensions()
	}

	if s.embedder != nil {
		status.EmbeddingModel = s.embedder.ModelName()
		status.EmbeddingReachable = ping(ctx, s.embedder.Ping)
		if status.Dimensions == 0 {
			status.Dimensions = s.embedder.Dimensions()
		}
	}
	if s.llm != nil {
		status.GenerationModel = s.llm.ModelName()
		status.GenerationReachable = ping(ctx, s.llm.Ping)
	}
	return status, nil
}

func ping(ctx context.Context, fn func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, statusPingTimeout)
	defer cancel()
	return fn(ctx) == nil
}
