package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure decorators implement the interfaces.
var (
	_ driven.EmbeddingService = (*RateLimitedEmbedding)(nil)
	_ driven.LLMService       = (*RateLimitedLLM)(nil)
)

// NewLimiter builds a token bucket for provider calls. A non-positive rate
// returns nil, which disables limiting.
func NewLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		// Wait fails early when the deadline cannot accommodate the delay.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: rate limit: %w", domain.ErrProviderError, err)
	}
	return nil
}

// RateLimitedEmbedding throttles calls to an embedding service.
type RateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimitedEmbedding wraps svc. A nil limiter passes calls straight through.
func NewRateLimitedEmbedding(svc driven.EmbeddingService, limiter *rate.Limiter) *RateLimitedEmbedding {
	return &RateLimitedEmbedding{EmbeddingService: svc, limiter: limiter}
}

// Embed waits for a token, then embeds text.
func (r *RateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return nil, err
	}
	return r.EmbeddingService.Embed(ctx, text)
}

// EmbedBatch waits for a single token per batch request.
func (r *RateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return nil, err
	}
	return r.EmbeddingService.EmbedBatch(ctx, texts)
}

// RateLimitedLLM throttles calls to a generation service.
type RateLimitedLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

// NewRateLimitedLLM wraps svc. A nil limiter passes calls straight through.
func NewRateLimitedLLM(svc driven.LLMService, limiter *rate.Limiter) *RateLimitedLLM {
	return &RateLimitedLLM{LLMService: svc, limiter: limiter}
}

// Generate waits for a token, then generates.
func (r *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return "", err
	}
	return r.LLMService.Generate(ctx, prompt, opts)
}
