package mcp

import (
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions. Required.
	Query driving.QueryService

	// Ingest adds documents. The ingest_text tool is only registered when set.
	Ingest driving.IngestService

	// Status reports corpus and provider health.
	Status driving.StatusService

	// Document browses indexed documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
