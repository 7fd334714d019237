// Package vectorindex selects a vector index implementation from settings.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/hnsw"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/memory"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/redis"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// New creates the index named by settings.Kind.
func New(ctx context.Context, settings domain.VectorIndexSettings) (driven.VectorIndex, error) {
	switch settings.Kind {
	case domain.VectorIndexMemory, "":
		return memory.New(), nil
	case domain.VectorIndexHNSW:
		logger.Debug("hnsw index: m=%d ef_construction=%d ef_search=%d (approximate)",
			settings.M, settings.EfConstruction, settings.EfSearch)
		return hnsw.New(hnsw.Config{
			M:              settings.M,
			EfConstruction: settings.EfConstruction,
			EfSearch:       settings.EfSearch,
		}), nil
	case domain.VectorIndexRedis:
		logger.Debug("redis index %s at %s (approximate)", settings.RedisIndex, settings.RedisAddr)
		idx, err := redis.New(ctx, redis.Config{
			Addr:           settings.RedisAddr,
			Password:       settings.RedisPassword,
			IndexName:      settings.RedisIndex,
			EFConstruction: settings.EfConstruction,
			M:              settings.M,
		})
		if err != nil {
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("%w: vector index kind %q", domain.ErrInvalidInput, settings.Kind)
	}
}

// Persistent reports whether the index keeps its own state across restarts,
// so it need not be rebuilt from the document store.
func Persistent(kind domain.VectorIndexKind) bool {
	return kind == domain.VectorIndexRedis
}
