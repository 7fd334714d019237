package driving

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// QueryService answers natural-language questions from the indexed corpus.
// This is the single contract presentation layers depend on.
type QueryService interface {
	// Query returns a grounded answer or a typed error (see domain.ErrorKind).
	Query(ctx context.Context, text string, opts domain.QueryOptions) (*domain.QueryResult, error)

	// Run is Query that also reports the terminal state and transitions.
	Run(ctx context.Context, text string, opts domain.QueryOptions) domain.QueryOutcome
}

// Retriever ranks chunks for a query.
type Retriever interface {
	// Retrieve returns up to topN candidates ordered by fused score descending.
	Retrieve(ctx context.Context, text string, topN int, alpha *float64) ([]domain.Candidate, error)
}

// Assembler turns ranked candidates into a QueryResult.
type Assembler interface {
	// Assemble never fails because generation failed; it degrades instead.
	Assemble(ctx context.Context, query string, candidates []domain.Candidate) (*domain.QueryResult, error)
}
