package cli

import (
	"context"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/memory"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/core/services"
)

// mockQueryService implements driving.QueryService.
type mockQueryService struct {
	result   *domain.QueryResult
	err      error
	lastText string
	lastOpts domain.QueryOptions
}

func (m *mockQueryService) Query(_ context.Context, text string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	m.lastText = text
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockQueryService) Run(ctx context.Context, text string, opts domain.QueryOptions) domain.QueryOutcome {
	result, err := m.Query(ctx, text, opts)
	if err != nil {
		return domain.QueryOutcome{State: domain.QueryStateFailed, Err: err}
	}
	return domain.QueryOutcome{State: domain.QueryStateCompleted, Result: result}
}

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	ingested []domain.Document
	removed  []string
	err      error
	removeFn func(id string) error
}

func (m *mockIngestService) Ingest(_ context.Context, doc *domain.Document) (*driving.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, *doc)
	return &driving.IngestReport{DocumentID: doc.ID, Title: doc.Title, Chunks: 1}, nil
}

func (m *mockIngestService) IngestAll(ctx context.Context, docs []domain.Document) ([]driving.IngestReport, error) {
	reports := make([]driving.IngestReport, 0, len(docs))
	for i := range docs {
		r, err := m.Ingest(ctx, &docs[i])
		if err != nil {
			return reports, err
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

func (m *mockIngestService) Remove(_ context.Context, id string) error {
	m.removed = append(m.removed, id)
	if m.removeFn != nil {
		return m.removeFn(id)
	}
	return nil
}

func (m *mockIngestService) Rebuild(_ context.Context) (int, error) {
	return 0, nil
}

// mockStatusService implements driving.StatusService.
type mockStatusService struct {
	status *domain.IndexStatus
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return m.status, m.err
}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	docs   []domain.Document
	chunks []domain.Chunk
	opened string
	err    error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Open(_ context.Context, id string) error {
	m.opened = id
	return m.err
}

// testServices is the engine installed by setupTestServices.
type testServices struct {
	query    *mockQueryService
	ingest   *mockIngestService
	status   *mockStatusService
	document *mockDocumentService
	settings *services.SettingsService
}

// setupTestServices installs mock services and returns a cleanup func that
// restores globals and resets command flags.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		query: &mockQueryService{result: &domain.QueryResult{
			Answer: "Send a POST request to /api/v2/tickets [1].",
			Sources: []domain.Citation{
				{Title: "Create a ticket", URL: "https://api.freshservice.com/#create_ticket", RelevanceScore: 0.8},
			},
			Confidence: 0.79,
			Query:      "How do I create a ticket?",
		}},
		ingest: &mockIngestService{},
		status: &mockStatusService{status: &domain.IndexStatus{
			Documents:          4,
			Chunks:             9,
			Dimensions:         256,
			IndexKind:          "memory",
			EmbeddingModel:     "hashing-v1",
			EmbeddingReachable: true,
			LastUpdated:        time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		}},
		document: &mockDocumentService{docs: []domain.Document{
			{ID: "doc-1", Title: "Create a ticket", URL: "https://api.freshservice.com/#create_ticket", Content: "# Tickets"},
		}},
		settings: services.NewSettingsService(memory.NewConfigStore(), nil),
	}

	oldSettings := settingsService
	SetSettingsService(ts.settings)
	SetEngine(&Engine{
		Query:    ts.query,
		Ingest:   ts.ingest,
		Status:   ts.status,
		Document: ts.document,
	})

	return ts, func() {
		SetSettingsService(oldSettings)
		SetEngineFactory(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		queryTopN, queryJSON, queryExamples = 0, false, false
		queryAlpha = 1
		queryCmd.Flags().Lookup("alpha").Changed = false
		statusJSON = false
		ingestManifest, ingestBaseURL, ingestCategory = "", "", ""
		ingestExclude = nil
	}
}
