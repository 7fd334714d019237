package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Environment variables that fill settings left empty in the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
	EnvRedisAddr    = "REDIS_ADDR"
)

// settingField binds a config key to the AppSettings field it fills.
// ref returns a pointer to the field; its type decides how values parse.
type settingField struct {
	key    string
	ref    func(*domain.AppSettings) any
	secret bool
}

// settingFields lists every persisted key.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var settingFields = []settingField{
	{key: "chunker.max_tokens", ref: func(s *domain.AppSettings) any { return &s.Chunker.MaxTokens }},
	{key: "chunker.overlap_tokens", ref: func(s *domain.AppSettings) any { return &s.Chunker.OverlapTokens }},
	{key: "retrieval.top_n", ref: func(s *domain.AppSettings) any { return &s.Retrieval.TopN }},
	{key: "retrieval.over_fetch", ref: func(s *domain.AppSettings) any { return &s.Retrieval.OverFetch }},
	{key: "retrieval.alpha", ref: func(s *domain.AppSettings) any { return &s.Retrieval.Alpha }},
	{key: "retrieval.per_document_cap", ref: func(s *domain.AppSettings) any { return &s.Retrieval.PerDocumentCap }},
	{key: "assembly.context_tokens", ref: func(s *domain.AppSettings) any { return &s.Assembly.ContextTokens }},
	{key: "assembly.max_answer_tokens", ref: func(s *domain.AppSettings) any { return &s.Assembly.MaxAnswerTokens }},
	{key: "assembly.temperature", ref: func(s *domain.AppSettings) any { return &s.Assembly.Temperature }},
	{key: "assembly.fallback_answer", ref: func(s *domain.AppSettings) any { return &s.Assembly.FallbackAnswer }},
	{key: "orchestrator.timeout", ref: func(s *domain.AppSettings) any { return &s.Orchestrator.Timeout }},
	{key: "orchestrator.max_concurrent", ref: func(s *domain.AppSettings) any { return &s.Orchestrator.MaxConcurrent }},
	{key: "orchestrator.admission_wait", ref: func(s *domain.AppSettings) any { return &s.Orchestrator.AdmissionWait }},
	{key: "provider.max_attempts", ref: func(s *domain.AppSettings) any { return &s.Provider.MaxAttempts }},
	{key: "provider.base_backoff", ref: func(s *domain.AppSettings) any { return &s.Provider.BaseBackoff }},
	{key: "provider.max_backoff", ref: func(s *domain.AppSettings) any { return &s.Provider.MaxBackoff }},
	{key: "provider.requests_per_second", ref: func(s *domain.AppSettings) any { return &s.Provider.RequestsPerSecond }},
	{key: "provider.call_timeout", ref: func(s *domain.AppSettings) any { return &s.Provider.CallTimeout }},
	{key: "embedding.provider", ref: func(s *domain.AppSettings) any { return &s.Embedding.Provider }},
	{key: "embedding.model", ref: func(s *domain.AppSettings) any { return &s.Embedding.Model }},
	{key: "embedding.base_url", ref: func(s *domain.AppSettings) any { return &s.Embedding.BaseURL }},
	{key: "embedding.api_key", ref: func(s *domain.AppSettings) any { return &s.Embedding.APIKey }, secret: true},
	{key: "embedding.dimensions", ref: func(s *domain.AppSettings) any { return &s.Embedding.Dimensions }},
	{key: "llm.provider", ref: func(s *domain.AppSettings) any { return &s.LLM.Provider }},
	{key: "llm.model", ref: func(s *domain.AppSettings) any { return &s.LLM.Model }},
	{key: "llm.base_url", ref: func(s *domain.AppSettings) any { return &s.LLM.BaseURL }},
	{key: "llm.api_key", ref: func(s *domain.AppSettings) any { return &s.LLM.APIKey }, secret: true},
	{key: "vector_index.kind", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.Kind }},
	{key: "vector_index.m", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.M }},
	{key: "vector_index.ef_construction", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.EfConstruction }},
	{key: "vector_index.ef_search", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.EfSearch }},
	{key: "vector_index.redis_addr", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.RedisAddr }},
	{key: "vector_index.redis_password", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.RedisPassword }, secret: true},
	{key: "vector_index.redis_index", ref: func(s *domain.AppSettings) any { return &s.VectorIndex.RedisIndex }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. aiValidator may be nil.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings: defaults, then the config
// file, then environment variables for values still empty.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, f := range settingFields {
		raw, ok := s.configStore.Get(f.key)
		if !ok {
			continue
		}
		if err := assign(f.ref(&settings), raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, f.key, err)
		}
	}

	s.applyEnv(&settings)
	return &settings, nil
}

// Save validates and persists every setting. Empty secrets are not written,
// so keys supplied through the environment stay out of the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, f := range settingFields {
		value := stored(f.ref(settings))
		if f.secret && value == "" {
			continue
		}
		if err := s.configStore.Set(f.key, value); err != nil {
			return fmt.Errorf("save %s: %w", f.key, err)
		}
	}
	return nil
}

// Set parses value for key, checks the resulting settings are valid and
// persists the single key.
func (s *SettingsService) Set(key, value string) error {
	field, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	target := field.ref(settings)
	if err := assign(target, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, stored(target))
}

// Keys lists the keys Set accepts, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingFields))
	for i, f := range settingFields {
		keys[i] = f.key
	}
	sort.Strings(keys)
	return keys
}

// Values returns every key with its effective value, sorted by key.
func (s *SettingsService) Values() ([]driving.SettingValue, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	keys := s.Keys()
	values := make([]driving.SettingValue, 0, len(keys))
	for _, key := range keys {
		v, _ := Lookup(settings, key)
		values = append(values, driving.SettingValue{Key: key, Value: v, Secret: IsSecret(key)})
	}
	return values, nil
}

// IsSecret reports whether key holds a credential that should be masked.
func IsSecret(key string) bool {
	f, ok := lookupField(key)
	return ok && f.secret
}

// Lookup returns the display form of key's value in settings.
func Lookup(settings *domain.AppSettings, key string) (string, bool) {
	f, ok := lookupField(key)
	if !ok {
		return "", false
	}
	return fmt.Sprint(stored(f.ref(settings))), true
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return s.getenv(EnvOpenAIKey)
		case domain.AIProviderAnthropic:
			return s.getenv(EnvAnthropicKey)
		default:
			return ""
		}
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = keyFor(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = keyFor(settings.LLM.Provider)
	}
	if host := s.getenv(EnvOllamaHost); host != "" {
		if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = host
		}
		if settings.LLM.Provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = host
		}
	}
	if addr := s.getenv(EnvRedisAddr); addr != "" {
		if _, set := s.configStore.Get("vector_index.redis_addr"); !set {
			settings.VectorIndex.RedisAddr = addr
		}
	}
}

func lookupField(key string) (settingField, bool) {
	for _, f := range settingFields {
		if f.key == key {
			return f, true
		}
	}
	return settingField{}, false
}

// assign stores raw into the field behind target. raw is either a value
// decoded from the config file or a string typed by the user.
func assign(target, raw any) error {
	switch p := target.(type) {
	case *string:
		*p = fmt.Sprint(raw)
	case *int:
		v, err := toInt(raw)
		if err != nil {
			return err
		}
		*p = v
	case *float64:
		v, err := toFloat(raw)
		if err != nil {
			return err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(fmt.Sprint(raw))
		if err != nil {
			return err
		}
		*p = v
	case *time.Duration:
		v, err := time.ParseDuration(fmt.Sprint(raw))
		if err != nil {
			return err
		}
		*p = v
	case *domain.AIProvider:
		v := domain.AIProvider(fmt.Sprint(raw))
		if v != "" && !v.IsValid() {
			return fmt.Errorf("unknown provider %q", v)
		}
		*p = v
	case *domain.VectorIndexKind:
		v := domain.VectorIndexKind(fmt.Sprint(raw))
		if !v.IsValid() {
			return fmt.Errorf("unknown vector index kind %q", v)
		}
		*p = v
	default:
		return fmt.Errorf("unsupported setting type %T", target)
	}
	return nil
}

// stored converts the field behind ref to the value written to the config file.
func stored(ref any) any {
	switch p := ref.(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	case *bool:
		return *p
	case *time.Duration:
		return p.String()
	case *domain.AIProvider:
		return p.String()
	case *domain.VectorIndexKind:
		return p.String()
	default:
		return nil
	}
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return strconv.Atoi(fmt.Sprint(raw))
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return strconv.ParseFloat(fmt.Sprint(raw), 64)
	}
}
