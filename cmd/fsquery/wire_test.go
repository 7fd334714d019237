package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/ai"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/config/file"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/hashing"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/memory"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/memory"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/services"
)

type countingRebuilder struct {
	calls int
}

func (r *countingRebuilder) Rebuild(_ context.Context) (int, error) {
	r.calls++
	return 7, nil
}

// seedStore writes one document whose chunk was embedded by model.
func seedStore(t *testing.T, home, model string) {
	t.Helper()
	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	docs := store.DocumentStore()
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "d1", Title: "Tickets", URL: "https://api.freshservice.com/#tickets", Content: "Create a ticket with POST.",
	}))

	vec := make([]float32, hashing.DefaultDimensions)
	vec[0] = 1
	require.NoError(t, docs.SaveChunks(ctx, "d1", []domain.Chunk{{
		ID:             domain.ChunkID("d1", 0),
		DocumentID:     "d1",
		Content:        "Create a ticket with POST.",
		Embedding:      vec,
		EmbeddingModel: model,
	}}))
}

func TestBuildEngine_EmbeddingModelChanged(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	seedStore(t, home, "old-model")

	settings := services.NewSettingsService(memory.NewConfigStore(), ai.NewConfigValidator())
	ctx := context.Background()

	engine, err := buildEngine(ctx, settings)

	require.NoError(t, err)
	require.NotNil(t, engine)
	defer engine.Close()

	report, err := engine.Ingest.Ingest(ctx, &domain.Document{
		ID: "d1", Title: "Tickets", URL: "https://api.freshservice.com/#tickets", Content: "Create a ticket with POST.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Chunks)

	chunks, err := engine.Document.Chunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.NotEqual(t, "old-model", chunks[0].EmbeddingModel)
}

func TestLoadIndex(t *testing.T) {
	ctx := context.Background()
	filled := vecmemory.New()
	require.NoError(t, filled.Upsert(ctx, "c1", []float32{1, 0}))

	tests := []struct {
		name      string
		kind      domain.VectorIndexKind
		index     *vecmemory.Index
		wantCalls int
	}{
		{"memory always reloads", domain.VectorIndexMemory, filled, 1},
		{"hnsw always reloads", domain.VectorIndexHNSW, filled, 1},
		{"empty redis reloads", domain.VectorIndexRedis, vecmemory.New(), 1},
		{"filled redis is kept", domain.VectorIndexRedis, filled, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &countingRebuilder{}

			_, err := loadIndex(ctx, tt.kind, tt.index, r)

			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, r.calls)
		})
	}
}
