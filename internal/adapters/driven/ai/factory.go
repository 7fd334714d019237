// Package ai builds the embedding and generation services from settings,
// validates their connectivity and applies rate limiting.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/08nikhil/freshservice-Application/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/08nikhil/freshservice-Application/internal/adapters/driven/llm/ollama"
	openaillm "github.com/08nikhil/freshservice-Application/internal/adapters/driven/llm/openai"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the provider services the engine runs with.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService // nil when answers are retrieval-only
	Warnings  []string          // non-fatal issues, such as an unreachable LLM
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices creates and validates the providers named by settings.
// A missing or unreachable embedding provider is fatal. A missing or
// unreachable LLM is recorded as a warning and leaves LLM nil, so answers
// degrade to retrieval-only.
func NewServices(ctx context.Context, settings domain.AppSettings) (*Services, error) {
	limiter := NewLimiter(settings.Provider.RequestsPerSecond)

	embedding, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding, settings.Provider.CallTimeout)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	result := &Services{Embedding: NewRateLimitedEmbedding(embedding, limiter)}

	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM, settings.Provider.CallTimeout)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("generation disabled: %v", err)
	case llm == nil:
		result.Warnings = append(result.Warnings, "no LLM configured; answers are retrieval-only")
	default:
		result.LLM = NewRateLimitedLLM(llm, limiter)
	}
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and pings it.
// Returns nil, nil when the provider is not configured.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings, callTimeout time.Duration,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings, callTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'fsquery settings set embedding.provider ...' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and pings it.
// Returns nil, nil when the provider is not configured.
func CreateAndValidateLLMService(
	ctx context.Context, settings *domain.LLMSettings, callTimeout time.Duration,
) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings, callTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrGenerationUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig creates an embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), settings, 0)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig creates an LLM service and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(context.Background(), settings, 0)
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the embedding service for settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, callTimeout time.Duration) (driven.EmbeddingService, error) {
	if settings == nil || settings.Provider == "" {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHashing:
		return hashing.New(settings.Dimensions), nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    callTimeout,
			Dimensions: dimensionsFor(settings),
		}), nil

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai requires an API key (set OPENAI_API_KEY)")
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    callTimeout,
			Dimensions: dimensionsFor(settings),
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use hashing, ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the generation service for settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings, callTimeout time.Duration) (driven.LLMService, error) {
	if settings == nil || settings.Provider == "" {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: callTimeout,
		}), nil

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai requires an API key (set OPENAI_API_KEY)")
		}
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: callTimeout,
		})

	case domain.AIProviderAnthropic:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("anthropic requires an API key (set ANTHROPIC_API_KEY)")
		}
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: callTimeout,
		})

	case domain.AIProviderHashing:
		return nil, fmt.Errorf("hashing cannot generate text, use ollama, openai or anthropic")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func dimensionsFor(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return domain.EmbeddingDimensions()[settings.Model]
}
