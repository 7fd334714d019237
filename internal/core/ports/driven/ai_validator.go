package driven

import "github.com/08nikhil/freshservice-Application/internal/core/domain"

// AIConfigValidator verifies provider settings by contacting the provider.
type AIConfigValidator interface {
	// ValidateEmbedding returns nil if config is reachable or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM returns nil if config is reachable or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
