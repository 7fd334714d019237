package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Setenv(HomeEnv, "/tmp/fsq-home")
	dir, err := Home()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fsq-home", dir)

	t.Setenv(HomeEnv, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	dir, err = Home()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".fsquery"), dir)
}

func TestNewConfigStore_UsesHomeEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(HomeEnv, tmpDir)

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "hashing"))
	require.NoError(t, store.Set("retrieval.top_n", 5))
	require.NoError(t, store.Set("retrieval.alpha", 0.7))
	require.NoError(t, store.Set("ui.color", true))

	assert.Equal(t, "hashing", store.GetString("embedding.provider"))
	assert.Equal(t, "", store.GetString("retrieval.top_n"))
	assert.Equal(t, 5, store.GetInt("retrieval.top_n"))
	assert.Equal(t, 0, store.GetInt("retrieval.alpha"))
	assert.InDelta(t, 0.7, store.GetFloat("retrieval.alpha"), 1e-9)
	assert.InDelta(t, 5.0, store.GetFloat("retrieval.top_n"), 1e-9)
	assert.True(t, store.GetBool("ui.color"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_n", 7))
	require.NoError(t, store.Set("retrieval.alpha", 0.5))
	require.NoError(t, store.Set("vector_index.kind", "hnsw"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[retrieval]")
	assert.Contains(t, string(raw), "[vector_index]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 7, reopened.GetInt("retrieval.top_n"))
	assert.InDelta(t, 0.5, reopened.GetFloat("retrieval.alpha"), 1e-9)
	assert.Equal(t, "hnsw", reopened.GetString("vector_index.kind"))
	assert.Equal(t, []string{"retrieval.alpha", "retrieval.top_n", "vector_index.kind"}, reopened.Keys())
}

func TestConfigStore_LoadHandWritten(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[embedding]
provider = "ollama"
model = "nomic-embed-text"

[retrieval]
alpha = 1
top_n = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_n"))
	assert.InDelta(t, 1.0, store.GetFloat("retrieval.alpha"), 1e-9)
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[broken"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}
	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)
	assert.Equal(t, nested, nestMap(flat))
}

func TestNestMap_TableWins(t *testing.T) {
	got := nestMap(map[string]any{"a": 1, "a.b": 2})
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, got)
}
