package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/ai"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/config/file"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/sqlite"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/cli"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/services"
	"github.com/08nikhil/freshservice-Application/internal/logger"
	"github.com/08nikhil/freshservice-Application/internal/postprocessors/chunker"
)

// buildEngine opens storage, connects providers and loads persisted vectors
// into the configured index.
func buildEngine(ctx context.Context, settingsService *services.SettingsService) (*cli.Engine, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	home, err := file.Home()
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	providers, err := ai.NewServices(ctx, *settings)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		providers.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	index, err := vectorindex.New(ctx, settings.VectorIndex)
	if err != nil {
		providers.Close()
		store.Close()
		return nil, err
	}

	closeAll := func() error {
		providers.Close()
		return errors.Join(index.Close(), store.Close())
	}

	docStore := store.DocumentStore()
	retry := services.NewRetryPolicy(settings.Provider)

	ingest := services.NewIngestService(
		chunker.New(
			chunker.WithMaxTokens(settings.Chunker.MaxTokens),
			chunker.WithOverlap(settings.Chunker.OverlapTokens),
		),
		providers.Embedding, index, docStore, retry,
	)

	logger.Section("Loading index")
	loaded, err := loadIndex(ctx, settings.VectorIndex.Kind, index, ingest)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("rebuild index: %w", err)
	}
	logger.Debug("loaded %d vectors into %s index", loaded, settings.VectorIndex.Kind)

	retriever := services.NewRetrieverService(providers.Embedding, index, docStore, settings.Retrieval, retry)
	assembler := services.NewAssemblerService(providers.LLM, prompts, settings.Assembly, retry)
	status := services.NewStatusService(docStore, index, providers.Embedding, providers.LLM, settings.VectorIndex.Kind)

	return &cli.Engine{
		Query:    services.NewQueryOrchestrator(retriever, assembler, settings.Orchestrator, settings.Retrieval.TopN),
		Ingest:   ingest,
		Status:   status,
		Document: services.NewDocumentService(docStore),
		Close:    closeAll,
	}, nil
}

// rebuilder reloads persisted vectors into the index.
type rebuilder interface {
	Rebuild(ctx context.Context) (int, error)
}

// loadIndex fills the index from the document store. A persistent index that
// already holds vectors is used as is.
func loadIndex(ctx context.Context, kind domain.VectorIndexKind, index driven.VectorIndex, r rebuilder) (int, error) {
	if vectorindex.Persistent(kind) && index.Len() > 0 {
		logger.Debug("%s index already holds %d vectors, not reloading", kind, index.Len())
		return 0, nil
	}
	return r.Rebuild(ctx)
}
