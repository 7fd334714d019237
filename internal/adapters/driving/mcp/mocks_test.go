package mcp

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
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

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	err     error
	lastDoc *domain.Document
}

func (m *mockIngestService) Ingest(_ context.Context, doc *domain.Document) (*driving.IngestReport, error) {
	m.lastDoc = doc
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestReport{DocumentID: doc.ID, Title: doc.Title, Chunks: 2}, nil
}

func (m *mockIngestService) IngestAll(_ context.Context, _ []domain.Document) ([]driving.IngestReport, error) {
	return nil, m.err
}

func (m *mockIngestService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIngestService) Rebuild(_ context.Context) (int, error) {
	return 0, m.err
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *domain.IndexStatus
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return m.status, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) Open(_ context.Context, _ string) error {
	return m.err
}
