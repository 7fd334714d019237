// Package domain defines the core business entities for fsquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a page of source documentation
//   - Chunk: a bounded slice of a document, the retrieval unit
//   - Candidate: a scored chunk produced for one query
//   - QueryResult and Citation: the answer returned to callers
//   - IndexStatus: live counts and provider health
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
