// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// A query flows Retriever -> AssemblerService under the QueryOrchestrator;
// IngestService keeps the corpus store and vector index in step.
package services
