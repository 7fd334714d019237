// Package mcp serves the query engine over the Model Context Protocol so
// AI assistants can ask questions of the indexed documentation and add
// pages to it.
package mcp

import "errors"

var (
	// ErrMissingQueryService is returned when the query service is not provided.
	ErrMissingQueryService = errors.New("mcp: query service is required")

	// ErrNoFreePort is returned when every port in the searched range is taken.
	ErrNoFreePort = errors.New("mcp: no free port")
)
