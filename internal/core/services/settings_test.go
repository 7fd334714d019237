package services

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/memory"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	lastEmbed    *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.lastEmbed = config
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)
	svc.getenv = func(key string) string { return env[key] }
	return svc, store
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, svc.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReadsStoredValues(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	require.NoError(t, store.Set("retrieval.alpha", 0.7))
	require.NoError(t, store.Set("retrieval.top_n", int64(8)))
	require.NoError(t, store.Set("orchestrator.timeout", "3s"))
	require.NoError(t, store.Set("vector_index.kind", "hnsw"))
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.InDelta(t, 0.7, settings.Retrieval.Alpha, 1e-9)
	assert.Equal(t, 8, settings.Retrieval.TopN)
	assert.Equal(t, 3*time.Second, settings.Orchestrator.Timeout)
	assert.Equal(t, domain.VectorIndexHNSW, settings.VectorIndex.Kind)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, 4, settings.Retrieval.OverFetch, "unset keys keep defaults")
}

func TestSettingsService_Get_RejectsCorruptValue(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	require.NoError(t, store.Set("orchestrator.timeout", "soon"))

	_, err := svc.Get()

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "orchestrator.timeout")
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{"alpha", "retrieval.alpha", "0.5", false, func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 0.5, s.Retrieval.Alpha, 1e-9)
		}},
		{"pool size", "orchestrator.max_concurrent", "16", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 16, s.Orchestrator.MaxConcurrent)
		}},
		{"duration", "orchestrator.admission_wait", "1s", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, time.Second, s.Orchestrator.AdmissionWait)
		}},
		{"provider", "llm.provider", "anthropic", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.AIProviderAnthropic, s.LLM.Provider)
		}},
		{"alpha out of range", "retrieval.alpha", "1.5", true, nil},
		{"alpha not a number", "retrieval.alpha", "high", true, nil},
		{"overlap not below max", "chunker.overlap_tokens", "256", true, nil},
		{"zero pool", "orchestrator.max_concurrent", "0", true, nil},
		{"unknown provider", "embedding.provider", "bogus", true, nil},
		{"unknown index kind", "vector_index.kind", "faiss", true, nil},
		{"unknown key", "retrieval.magic", "1", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettingsService(nil)

			err := svc.Set(tt.key, tt.value)

			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				_, stored := store.Get(tt.key)
				assert.False(t, stored, "rejected values are not persisted")
				return
			}
			require.NoError(t, err)
			settings, err := svc.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_StoresDurationsAsStrings(t *testing.T) {
	svc, store := newTestSettingsService(nil)

	require.NoError(t, svc.Set("orchestrator.timeout", "15s"))

	assert.Equal(t, "15s", store.GetString("orchestrator.timeout"))
}

func TestSettingsService_Save(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	settings := domain.DefaultAppSettings()
	settings.Retrieval.Alpha = 0.6
	settings.VectorIndex.Kind = domain.VectorIndexRedis

	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	_, stored := store.Get("llm.api_key")
	assert.False(t, stored, "empty secrets are not written")

	bad := domain.DefaultAppSettings()
	bad.Retrieval.TopN = 0
	require.ErrorIs(t, svc.Save(&bad), domain.ErrInvalidInput)
	require.ErrorIs(t, svc.Save(nil), domain.ErrInvalidInput)
}

func TestSettingsService_Get_EnvironmentFallbacks(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{
		EnvOpenAIKey:    "sk-env",
		EnvAnthropicKey: "ant-env",
		EnvOllamaHost:   "http://ollama:11434",
		EnvRedisAddr:    "redis:6379",
	})
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("llm.provider", "anthropic"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "ant-env", settings.LLM.APIKey)
	assert.Equal(t, "redis:6379", settings.VectorIndex.RedisAddr)

	require.NoError(t, store.Set("embedding.api_key", "sk-file"))
	require.NoError(t, store.Set("vector_index.redis_addr", "localhost:6380"))
	settings, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-file", settings.Embedding.APIKey, "config file wins")
	assert.Equal(t, "localhost:6380", settings.VectorIndex.RedisAddr)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	settings, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://ollama:11434", settings.LLM.BaseURL)
	assert.Empty(t, settings.LLM.APIKey)
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	keys := svc.Keys()

	assert.True(t, sort.StringsAreSorted(keys))
	assert.Contains(t, keys, "retrieval.alpha")
	assert.Contains(t, keys, "orchestrator.max_concurrent")
	assert.Contains(t, keys, "vector_index.kind")
	for _, k := range keys {
		_, ok := Lookup(&domain.AppSettings{}, k)
		assert.True(t, ok, k)
	}
}

func TestSettingsService_Values(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{EnvOpenAIKey: "sk-env"})
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("retrieval.top_n", int64(7)))

	values, err := svc.Values()

	require.NoError(t, err)
	require.Len(t, values, len(svc.Keys()))
	byKey := make(map[string]string, len(values))
	for _, v := range values {
		byKey[v.Key] = v.Value
		assert.Equal(t, IsSecret(v.Key), v.Secret, v.Key)
	}
	assert.Equal(t, "7", byKey["retrieval.top_n"])
	assert.Equal(t, "openai", byKey["embedding.provider"])
	assert.Equal(t, "sk-env", byKey["embedding.api_key"])
}

func TestLookupAndIsSecret(t *testing.T) {
	settings := domain.DefaultAppSettings()

	v, ok := Lookup(&settings, "orchestrator.timeout")
	require.True(t, ok)
	assert.Equal(t, "10s", v)

	v, ok = Lookup(&settings, "retrieval.alpha")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = Lookup(&settings, "nope")
	assert.False(t, ok)

	assert.True(t, IsSecret("llm.api_key"))
	assert.False(t, IsSecret("llm.model"))
}

func TestSettingsService_ValidateConfig(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIValidator{embeddingErr: errors.New("unreachable")}
	svc := NewSettingsService(store, validator)

	err := svc.ValidateEmbeddingConfig()
	require.EqualError(t, err, "unreachable")
	require.NotNil(t, validator.lastEmbed)
	assert.Equal(t, domain.AIProviderHashing, validator.lastEmbed.Provider)

	assert.NoError(t, svc.ValidateLLMConfig())

	noValidator := NewSettingsService(store, nil)
	assert.NoError(t, noValidator.ValidateEmbeddingConfig())
}
