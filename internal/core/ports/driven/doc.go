// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: embeds chunks at ingestion and queries at serving time
//   - VectorIndex: nearest-neighbour search (memory, HNSW or Redis)
//   - DocumentStore: documents, chunks and their vectors (SQLite or memory)
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: without it, answers are retrieval-only with confidence capped at 0.5.
//   - PromptStore: without it, built-in prompt templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
