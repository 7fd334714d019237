package driving

import "github.com/08nikhil/freshservice-Application/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get reads current settings, applying defaults for missing keys.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// Set parses and stores a single key such as "retrieval.alpha".
	Set(key, value string) error

	// Keys lists the keys Set accepts.
	Keys() []string

	// Values returns every key with its effective value, sorted by key.
	Values() ([]SettingValue, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}

// SettingValue is one settings key with its effective value.
type SettingValue struct {
	Key    string
	Value  string
	Secret bool
}
