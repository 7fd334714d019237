package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// Ensure QueryOrchestrator implements the interface.
var _ driving.QueryService = (*QueryOrchestrator)(nil)

// QueryOrchestrator runs a query through retrieval and assembly under an
// admission pool and a whole-query deadline. It holds no per-query state, so
// one instance serves any number of concurrent callers.
type QueryOrchestrator struct {
	retriever driving.Retriever
	assembler driving.Assembler
	settings  domain.OrchestratorSettings
	topN      int
	pool      *semaphore.Weighted
}

// NewQueryOrchestrator creates a new orchestrator. topN is used when a query
// does not set its own.
func NewQueryOrchestrator(
	retriever driving.Retriever,
	assembler driving.Assembler,
	settings domain.OrchestratorSettings,
	topN int,
) *QueryOrchestrator {
	size := max(settings.MaxConcurrent, 1)
	return &QueryOrchestrator{
		retriever: retriever,
		assembler: assembler,
		settings:  settings,
		topN:      topN,
		pool:      semaphore.NewWeighted(int64(size)),
	}
}

// Query answers text or returns a typed error.
func (o *QueryOrchestrator) Query(
	ctx context.Context, text string, opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	outcome := o.Run(ctx, text, opts)
	if outcome.State == domain.QueryStateFailed {
		return nil, outcome.Err
	}
	return outcome.Result, nil
}

// Run answers text and reports every state the query passed through.
func (o *QueryOrchestrator) Run(
	ctx context.Context, text string, opts domain.QueryOptions,
) domain.QueryOutcome {
	q := &queryRun{
		start: time.Now(),
		outcome: domain.QueryOutcome{
			ID:          uuid.NewString(),
			State:       domain.QueryStateReceived,
			Transitions: []domain.QueryState{domain.QueryStateReceived},
		},
	}
	q.log = logger.With("query_id", q.outcome.ID)

	text = strings.TrimSpace(text)
	if text == "" {
		return q.fail(fmt.Errorf("%w: empty query", domain.ErrInvalidArgument))
	}
	topN := opts.TopN
	if topN == 0 {
		topN = o.topN
	}
	if topN <= 0 {
		return q.fail(fmt.Errorf("%w: top_n must be positive, got %d", domain.ErrInvalidArgument, topN))
	}

	// The deadline covers the admission wait as well.
	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	if err := o.admit(ctx); err != nil {
		return q.fail(o.classify(ctx, err))
	}
	defer o.pool.Release(1)

	q.move(domain.QueryStateRetrieving)
	candidates, err := o.retriever.Retrieve(ctx, text, topN, opts.Alpha)
	if err != nil {
		return q.fail(o.classify(ctx, err))
	}
	q.log.Debug("retrieved %d candidates", len(candidates))

	q.move(domain.QueryStateAssembling)
	result, err := o.assembler.Assemble(ctx, text, candidates)
	if err != nil {
		return q.fail(o.classify(ctx, err))
	}
	result.Query = text

	q.outcome.Result = result
	q.move(domain.QueryStateCompleted)
	q.log.Info("completed with confidence %.2f (degraded=%t, sources=%d)",
		result.Confidence, result.Degraded, len(result.Sources))
	return q.finish()
}

// admit takes a pool slot, waiting at most AdmissionWait.
func (o *QueryOrchestrator) admit(ctx context.Context) error {
	if o.pool.TryAcquire(1) {
		return nil
	}
	wait := o.settings.AdmissionWait
	if wait <= 0 {
		return fmt.Errorf("%w: %d queries in flight", domain.ErrOverloaded, max(o.settings.MaxConcurrent, 1))
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := o.pool.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: no slot free after %s", domain.ErrOverloaded, wait)
	}
	return nil
}

// classify maps the query deadline to ErrQueryTimeout. A caller's own
// cancellation passes through unchanged.
func (o *QueryOrchestrator) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: after %s", domain.ErrQueryTimeout, o.timeout())
	}
	return err
}

func (o *QueryOrchestrator) timeout() time.Duration {
	if o.settings.Timeout > 0 {
		return o.settings.Timeout
	}
	return domain.DefaultAppSettings().Orchestrator.Timeout
}

// queryRun tracks one query's state machine.
type queryRun struct {
	start   time.Time
	outcome domain.QueryOutcome
	log     *logger.Entry
}

func (q *queryRun) move(next domain.QueryState) {
	if !q.outcome.State.CanTransition(next) {
		q.log.Error("illegal transition %s -> %s", q.outcome.State, next)
		return
	}
	q.outcome.State = next
	q.outcome.Transitions = append(q.outcome.Transitions, next)
	q.log.Debug("state %s", next)
}

func (q *queryRun) fail(err error) domain.QueryOutcome {
	q.outcome.Err = err
	q.move(domain.QueryStateFailed)
	q.log.Warn("failed (%s): %v", domain.ErrorKind(err), err)
	return q.finish()
}

func (q *queryRun) finish() domain.QueryOutcome {
	q.outcome.Duration = time.Since(q.start)
	return q.outcome
}
