package domain

import (
	"context"
	"errors"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input outside the query path,
	// such as a bad settings value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidDocument indicates a document with no text or otherwise
	// unusable content was offered for chunking or ingestion. Never retried.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidArgument indicates malformed query parameters, such as k <= 0
	// or an empty query. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProviderError indicates a transient failure of the embedding or
	// generation provider. Retried at the call site and never surfaced as such.
	ErrProviderError = errors.New("provider error")

	// ErrProviderRejected indicates the provider refused the request itself,
	// for example a bad API key or an unknown model. Never retried.
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrEmbeddingUnavailable indicates the embedding provider is not configured
	// or failed after its retry budget. Fatal for the current query.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation provider is not configured
	// or failed after its retry budget. The answer degrades to retrieval-only.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrQueryTimeout indicates the whole-query deadline elapsed.
	ErrQueryTimeout = errors.New("query timeout")

	// ErrOverloaded indicates the admission pool is exhausted.
	// Callers should retry later.
	ErrOverloaded = errors.New("overloaded")

	// ErrVectorIndexUnavailable indicates the vector index is not configured
	// or its backing store cannot be reached.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// dimensionality already fixed for the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrModelMismatch indicates persisted vectors were produced by a different
	// embedding model than the one configured. Mixing models invalidates distances.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// Error kinds reported to callers of the query API.
const (
	KindInvalidDocument       = "invalid_document"
	KindInvalidArgument       = "invalid_argument"
	KindEmbeddingUnavailable  = "embedding_unavailable"
	KindGenerationUnavailable = "generation_unavailable"
	KindQueryTimeout          = "query_timeout"
	KindOverloaded            = "overloaded"
	KindNotFound              = "not_found"
	KindInternal              = "internal"
)

// ErrorKind maps err to the stable kind string exposed by the query API.
// Provider errors never reach callers directly and are reported as internal.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQueryTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindQueryTimeout
	case errors.Is(err, ErrOverloaded):
		return KindOverloaded
	case errors.Is(err, ErrInvalidDocument):
		return KindInvalidDocument
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidInput):
		return KindInvalidArgument
	case errors.Is(err, ErrEmbeddingUnavailable):
		return KindEmbeddingUnavailable
	case errors.Is(err, ErrGenerationUnavailable):
		return KindGenerationUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// ProviderStatusError returns the sentinel for a non-200 provider HTTP status.
// Request timeouts (408), rate limits (429) and 5xx are transient; any other
// status is a rejection.
func ProviderStatusError(status int) error {
	switch {
	case status == 408, status == 429, status >= 500:
		return ErrProviderError
	default:
		return ErrProviderRejected
	}
}

// QueryError is the {kind, message} shape returned to callers on failure.
type QueryError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewQueryError builds the caller-facing form of err.
func NewQueryError(err error) QueryError {
	return QueryError{Kind: ErrorKind(err), Message: err.Error()}
}
