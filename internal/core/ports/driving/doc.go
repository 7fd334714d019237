// Package driving declares what the CLI, MCP server and TUI may ask of the
// core: answering questions, ingesting documentation, browsing the corpus,
// reporting index status and editing settings.
//
// The services in internal/core/services implement these interfaces.
package driving
