package services

import (
	"context"
	"errors"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// RetryPolicy bounds retries of provider calls.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// NewRetryPolicy builds a policy from provider settings.
func NewRetryPolicy(s domain.ProviderSettings) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: s.MaxAttempts,
		BaseBackoff: s.BaseBackoff,
		MaxBackoff:  s.MaxBackoff,
	}
}

// Backoff returns the delay after the given zero-based failed attempt:
// BaseBackoff << attempt, capped at MaxBackoff.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.BaseBackoff <= 0 {
		return 0
	}
	d := p.BaseBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// retryable reports whether err is worth another attempt.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrDimensionMismatch):
		return false
	default:
		return true
	}
}

// withRetry runs op until it succeeds, fails permanently, the attempts are
// spent or ctx ends. It returns the last error seen.
func withRetry[T any](ctx context.Context, p RetryPolicy, name string, op func(context.Context) (T, error)) (T, error) {
	attempts := max(p.MaxAttempts, 1)

	var zero T
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		if attempt == attempts-1 {
			break
		}

		delay := p.Backoff(attempt)
		logger.Debug("%s failed (attempt %d/%d), retrying in %s: %v", name, attempt+1, attempts, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	return zero, lastErr
}
