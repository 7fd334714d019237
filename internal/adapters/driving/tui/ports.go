// Package tui provides the interactive query console for fsquery.
// It is a driving adapter over the core query, status and document ports.
package tui

import (
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Query answers questions. Required.
	Query driving.QueryService

	// Status reports index readiness for the header. Optional.
	Status driving.StatusService

	// Document browses and opens indexed documents. Optional.
	Document driving.DocumentService
}

// NewPorts creates a Ports aggregate with the required query service.
func NewPorts(query driving.QueryService) *Ports {
	return &Ports{Query: query}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
