package domain

import "time"

// QueryOptions tunes a single query. Zero values fall back to configured settings.
type QueryOptions struct {
	// TopN is the number of candidates to retrieve.
	TopN int

	// Alpha overrides the vector/lexical fusion weight when non-nil.
	Alpha *float64
}

// Candidate is a retrieval candidate. It lives for the duration of one query.
type Candidate struct {
	// Chunk is the matched chunk (without its embedding).
	Chunk Chunk

	// DocumentTitle is the owning document's title.
	DocumentTitle string

	// DocumentURL is the owning document's canonical URL.
	DocumentURL string

	// Similarity is the vector similarity in [0,1].
	Similarity float64

	// Lexical is the token overlap ratio in [0,1]; zero when fusion is off.
	Lexical float64

	// Fused is alpha*Similarity + (1-alpha)*Lexical.
	Fused float64
}

// Citation points a caller back to a source document.
type Citation struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryResult is the answer to one query. It is owned by the caller once returned.
type QueryResult struct {
	// Answer is the grounded answer text.
	Answer string `json:"answer"`

	// Sources lists one citation per document used, best score first.
	Sources []Citation `json:"sources"`

	// Confidence in [0,1] derived from retrieval scores.
	Confidence float64 `json:"confidence"`

	// Query echoes the input text.
	Query string `json:"query"`

	// Degraded is set when generation failed and the answer is retrieval-only.
	Degraded bool `json:"degraded,omitempty"`
}

// QueryState is the lifecycle state of a query.
type QueryState string

// Query states. Completed and Failed are terminal.
const (
	QueryStateReceived   QueryState = "received"
	QueryStateRetrieving QueryState = "retrieving"
	QueryStateAssembling QueryState = "assembling"
	QueryStateCompleted  QueryState = "completed"
	QueryStateFailed     QueryState = "failed"
)

// IsTerminal returns true for Completed and Failed.
func (s QueryState) IsTerminal() bool {
	return s == QueryStateCompleted || s == QueryStateFailed
}

// String returns the string representation.
func (s QueryState) String() string {
	return string(s)
}

// CanTransition reports whether moving from s to next is allowed.
func (s QueryState) CanTransition(next QueryState) bool {
	switch s {
	case QueryStateReceived:
		return next == QueryStateRetrieving || next == QueryStateFailed
	case QueryStateRetrieving:
		return next == QueryStateAssembling || next == QueryStateFailed
	case QueryStateAssembling:
		return next == QueryStateCompleted || next == QueryStateFailed
	default:
		return false
	}
}

// QueryOutcome records how a query ended.
type QueryOutcome struct {
	// ID is the query identifier used in logs.
	ID string

	// State is the terminal state.
	State QueryState

	// Result is set when State is Completed.
	Result *QueryResult

	// Err is set when State is Failed.
	Err error

	// Transitions lists every state visited, in order.
	Transitions []QueryState

	// Duration is the wall-clock time spent.
	Duration time.Duration
}
