package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/loader"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and sources", func(t *testing.T) {
		query := &mockQueryService{
			result: &domain.QueryResult{
				Answer: "Send a POST request to /api/v2/tickets.",
				Sources: []domain.Citation{
					{Title: "Create a ticket", URL: "https://api.freshservice.com/#create_ticket", RelevanceScore: 0.81},
				},
				Confidence: 0.77,
				Query:      "How do I create a ticket?",
			},
		}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		alpha := 0.7
		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "How do I create a ticket?", TopN: 3, Alpha: &alpha})

		require.NoError(t, err)
		assert.Equal(t, "Send a POST request to /api/v2/tickets.", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "Create a ticket", output.Sources[0].Title)
		assert.Equal(t, 0.81, output.Sources[0].RelevanceScore)
		assert.Equal(t, 0.77, output.Confidence)
		assert.False(t, output.Degraded)

		assert.Equal(t, "How do I create a ticket?", query.lastText)
		assert.Equal(t, 3, query.lastOpts.TopN)
		require.NotNil(t, query.lastOpts.Alpha)
		assert.Equal(t, 0.7, *query.lastOpts.Alpha)
	})

	t.Run("empty sources stay an empty list", func(t *testing.T) {
		query := &mockQueryService{result: &domain.QueryResult{Answer: domain.DefaultFallbackAnswer, Sources: []domain.Citation{}}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "anything"})

		require.NoError(t, err)
		assert.NotNil(t, output.Sources)
		assert.Empty(t, output.Sources)
	})

	t.Run("error carries its kind", func(t *testing.T) {
		query := &mockQueryService{err: fmt.Errorf("%w: all 8 slots busy", domain.ErrOverloaded)}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrOverloaded)
		assert.Contains(t, err.Error(), "overloaded: ")
	})
}

func TestServer_handleIngestText(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests with a URL-derived id", func(t *testing.T) {
		ingest := &mockIngestService{}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: ingest})
		require.NoError(t, err)

		_, output, err := server.handleIngestText(ctx, nil, IngestTextInput{
			Title:   " Webhooks ",
			URL:     "https://api.freshservice.com/#webhooks",
			Content: "Webhooks notify you of ticket changes.",
		})

		require.NoError(t, err)
		assert.Equal(t, loader.DocumentID("https://api.freshservice.com/#webhooks"), output.DocumentID)
		assert.Equal(t, 2, output.Chunks)
		require.NotNil(t, ingest.lastDoc)
		assert.Equal(t, "Webhooks", ingest.lastDoc.Title)
	})

	t.Run("missing url", func(t *testing.T) {
		ingest := &mockIngestService{}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: ingest})
		require.NoError(t, err)

		_, _, err = server.handleIngestText(ctx, nil, IngestTextInput{Title: "x", Content: "text"})

		require.ErrorIs(t, err, domain.ErrInvalidDocument)
		assert.Contains(t, err.Error(), "invalid_document: ")
		assert.Nil(t, ingest.lastDoc)
	})

	t.Run("ingest failure", func(t *testing.T) {
		ingest := &mockIngestService{err: fmt.Errorf("%w: provider down", domain.ErrEmbeddingUnavailable)}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: ingest})
		require.NoError(t, err)

		_, _, err = server.handleIngestText(ctx, nil, IngestTextInput{URL: "https://x", Content: "text"})

		require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "embedding_unavailable: ")
	})
}
