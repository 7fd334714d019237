package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/loader"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string   `json:"query" jsonschema:"the question to answer from the Freshservice documentation"`
	TopN  int      `json:"top_n,omitempty" jsonschema:"number of excerpts to retrieve (default from settings)"`
	Alpha *float64 `json:"alpha,omitempty" jsonschema:"weight of vector similarity against keyword overlap, 0 to 1"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer     string         `json:"answer"`
	Sources    []SourceOutput `json:"sources"`
	Confidence float64        `json:"confidence"`
	Query      string         `json:"query"`
	Degraded   bool           `json:"degraded"`
}

// SourceOutput is one cited document.
type SourceOutput struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	RelevanceScore float64 `json:"relevance_score"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Title   string `json:"title" jsonschema:"page title shown in citations"`
	URL     string `json:"url" jsonschema:"canonical URL; ingesting the same URL again replaces the page"`
	Content string `json:"content" jsonschema:"page text, markdown or plain"`
}

// IngestTextOutput is the output schema for the ingest_text tool.
type IngestTextOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
	Removed    int    `json:"removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question from the indexed Freshservice documentation, with cited sources",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_text",
			Description: "Add or replace a documentation page in the index",
		}, s.handleIngestText)
	}
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	opts := domain.QueryOptions{TopN: input.TopN, Alpha: input.Alpha}
	result, err := s.ports.Query.Query(ctx, input.Query, opts)
	if err != nil {
		return nil, QueryOutput{}, toolError(err)
	}

	output := QueryOutput{
		Answer:     result.Answer,
		Sources:    make([]SourceOutput, len(result.Sources)),
		Confidence: result.Confidence,
		Query:      result.Query,
		Degraded:   result.Degraded,
	}
	for i, c := range result.Sources {
		output.Sources[i] = SourceOutput{
			Title:          c.Title,
			URL:            c.URL,
			RelevanceScore: c.RelevanceScore,
		}
	}

	return nil, output, nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestTextOutput, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, IngestTextOutput{}, toolError(fmt.Errorf("%w: url is required", domain.ErrInvalidDocument))
	}

	doc := &domain.Document{
		ID:       loader.DocumentID(url),
		Title:    strings.TrimSpace(input.Title),
		URL:      url,
		Content:  input.Content,
		Metadata: map[string]any{loader.MetaFormat: "mcp"},
	}
	report, err := s.ports.Ingest.Ingest(ctx, doc)
	if err != nil {
		return nil, IngestTextOutput{}, toolError(err)
	}

	return nil, IngestTextOutput{
		DocumentID: report.DocumentID,
		Chunks:     report.Chunks,
		Removed:    report.Removed,
	}, nil
}

// toolError prefixes err with its kind so clients can tell an overloaded
// engine from a bad question.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", domain.ErrorKind(err), err)
}
