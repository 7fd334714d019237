package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the in-process feature hashing embedder.
	// It needs no network and is deterministic, so it is used offline and in tests.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known dimensionality (hashing provider).
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkerSettings controls how documents are split.
type ChunkerSettings struct {
	// MaxTokens is the token budget per chunk.
	MaxTokens int

	// OverlapTokens is how many trailing tokens are repeated in the next chunk.
	OverlapTokens int
}

// RetrievalSettings controls candidate ranking.
type RetrievalSettings struct {
	// TopN is the default number of candidates returned.
	TopN int

	// OverFetch multiplies TopN to size the nearest-neighbour fetch.
	OverFetch int

	// Alpha weights vector similarity against lexical overlap, in [0,1].
	// 1.0 is pure vector search.
	Alpha float64

	// PerDocumentCap bounds candidates from any one document.
	PerDocumentCap int
}

// AssemblySettings controls answer generation.
type AssemblySettings struct {
	// ContextTokens bounds the retrieved text handed to the generator.
	ContextTokens int

	// MaxAnswerTokens bounds the generated answer.
	MaxAnswerTokens int

	// Temperature is passed to the generator.
	Temperature float64

	// FallbackAnswer is returned when nothing relevant was retrieved.
	FallbackAnswer string
}

// OrchestratorSettings controls query admission and deadlines.
type OrchestratorSettings struct {
	// Timeout is the whole-query deadline.
	Timeout time.Duration

	// MaxConcurrent is the admission pool size.
	MaxConcurrent int

	// AdmissionWait is how long a query may wait for a slot before Overloaded.
	AdmissionWait time.Duration
}

// ProviderSettings controls the external call layer.
type ProviderSettings struct {
	// MaxAttempts bounds tries per provider call, including the first.
	MaxAttempts int

	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration

	// MaxBackoff caps the retry delay.
	MaxBackoff time.Duration

	// RequestsPerSecond rate-limits provider calls; zero disables limiting.
	RequestsPerSecond float64

	// CallTimeout bounds a single provider request.
	CallTimeout time.Duration
}

// VectorIndexKind selects the nearest-neighbour implementation.
type VectorIndexKind string

// Available vector index kinds.
const (
	// VectorIndexMemory is an exact in-process linear scan.
	VectorIndexMemory VectorIndexKind = "memory"

	// VectorIndexHNSW is an approximate in-process graph index. Recall-bounded.
	VectorIndexHNSW VectorIndexKind = "hnsw"

	// VectorIndexRedis is a RediSearch HNSW index in an external Redis.
	VectorIndexRedis VectorIndexKind = "redis"
)

// IsValid returns true if the kind is recognised.
func (k VectorIndexKind) IsValid() bool {
	switch k {
	case VectorIndexMemory, VectorIndexHNSW, VectorIndexRedis:
		return true
	default:
		return false
	}
}

// IsApproximate returns true if query results are recall-bounded rather than exact.
func (k VectorIndexKind) IsApproximate() bool {
	return k == VectorIndexHNSW || k == VectorIndexRedis
}

// String returns the string representation.
func (k VectorIndexKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k VectorIndexKind) Description() string {
	switch k {
	case VectorIndexMemory:
		return "Memory (exact linear scan)"
	case VectorIndexHNSW:
		return "HNSW (approximate, in-process)"
	case VectorIndexRedis:
		return "Redis (approximate, RediSearch)"
	default:
		return unknownDescription
	}
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Kind selects the implementation.
	Kind VectorIndexKind

	// M is the HNSW neighbour count per node.
	M int

	// EfConstruction is the HNSW build-time candidate list size.
	EfConstruction int

	// EfSearch is the HNSW query-time candidate list size.
	EfSearch int

	// RedisAddr is the Redis address for the redis kind.
	RedisAddr string

	// RedisPassword authenticates to Redis.
	RedisPassword string

	// RedisIndex is the RediSearch index name.
	RedisIndex string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunker      ChunkerSettings
	Retrieval    RetrievalSettings
	Assembly     AssemblySettings
	Orchestrator OrchestratorSettings
	Provider     ProviderSettings
	Embedding    EmbeddingSettings
	LLM          LLMSettings
	VectorIndex  VectorIndexSettings
}

// DefaultFallbackAnswer is returned when retrieval finds nothing.
const DefaultFallbackAnswer = "I couldn't find anything in the documentation that answers this question. " +
	"Try rephrasing it or asking about tickets, authentication, users or configuration."

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings default to the offline hashing provider; generation is left
// unconfigured, so answers are retrieval-only until an LLM is set up.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			MaxTokens:     256,
			OverlapTokens: 32,
		},
		Retrieval: RetrievalSettings{
			TopN:           5,
			OverFetch:      4,
			Alpha:          1.0,
			PerDocumentCap: 3,
		},
		Assembly: AssemblySettings{
			ContextTokens:   2048,
			MaxAnswerTokens: 512,
			Temperature:     0.1,
			FallbackAnswer:  DefaultFallbackAnswer,
		},
		Orchestrator: OrchestratorSettings{
			Timeout:       10 * time.Second,
			MaxConcurrent: 8,
			AdmissionWait: 250 * time.Millisecond,
		},
		Provider: ProviderSettings{
			MaxAttempts: 3,
			BaseBackoff: 200 * time.Millisecond,
			MaxBackoff:  5 * time.Second,
			CallTimeout: 30 * time.Second,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Model:      DefaultEmbeddingModels()[AIProviderHashing],
			Dimensions: 256,
		},
		LLM: LLMSettings{},
		VectorIndex: VectorIndexSettings{
			Kind:           VectorIndexMemory,
			M:              16,
			EfConstruction: 200,
			EfSearch:       64,
			RedisAddr:      "localhost:6379",
			RedisIndex:     "fsquery-chunks",
		},
	}
}

// Validate checks ranges that would make the engine misbehave.
func (s AppSettings) Validate() error {
	switch {
	case s.Chunker.MaxTokens <= 0:
		return fmt.Errorf("%w: chunker.max_tokens must be positive", ErrInvalidInput)
	case s.Chunker.OverlapTokens < 0 || s.Chunker.OverlapTokens >= s.Chunker.MaxTokens:
		return fmt.Errorf("%w: chunker.overlap_tokens must be in [0, max_tokens)", ErrInvalidInput)
	case s.Retrieval.TopN <= 0:
		return fmt.Errorf("%w: retrieval.top_n must be positive", ErrInvalidInput)
	case s.Retrieval.OverFetch < 1:
		return fmt.Errorf("%w: retrieval.over_fetch must be at least 1", ErrInvalidInput)
	case s.Retrieval.Alpha < 0 || s.Retrieval.Alpha > 1:
		return fmt.Errorf("%w: retrieval.alpha must be in [0,1]", ErrInvalidInput)
	case s.Retrieval.PerDocumentCap <= 0:
		return fmt.Errorf("%w: retrieval.per_document_cap must be positive", ErrInvalidInput)
	case s.Assembly.ContextTokens <= 0:
		return fmt.Errorf("%w: assembly.context_tokens must be positive", ErrInvalidInput)
	case s.Orchestrator.Timeout <= 0:
		return fmt.Errorf("%w: orchestrator.timeout must be positive", ErrInvalidInput)
	case s.Orchestrator.MaxConcurrent <= 0:
		return fmt.Errorf("%w: orchestrator.max_concurrent must be positive", ErrInvalidInput)
	case s.Provider.MaxAttempts <= 0:
		return fmt.Errorf("%w: provider.max_attempts must be positive", ErrInvalidInput)
	case !s.VectorIndex.Kind.IsValid():
		return fmt.Errorf("%w: unknown vector_index.kind %q", ErrInvalidInput, s.VectorIndex.Kind)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllVectorIndexKinds returns all vector index kinds.
func AllVectorIndexKinds() []VectorIndexKind {
	return []VectorIndexKind{VectorIndexMemory, VectorIndexHNSW, VectorIndexRedis}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "hashing-v1",
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
