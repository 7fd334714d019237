package driven

import "context"

// LLMService generates free text from a prompt. It is a black box: its output
// is never trusted to report confidence. This is an optional service; when nil,
// answers degrade to retrieval-only.
//
// Implementations include OpenAI, Anthropic and Ollama.
type LLMService interface {
	// Generate produces text from a prompt.
	// Transient failures wrap domain.ErrProviderError; refused requests wrap
	// domain.ErrProviderRejected.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system instruction.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
