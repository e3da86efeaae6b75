package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, DefaultChunkSize, cfg.Chunking.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, DefaultSearchThreshold, cfg.Search.Threshold)
	assert.Equal(t, DefaultSearchLimit, cfg.Search.Limit)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, DefaultTruncateChars, cfg.Embedding.TruncateChars)
	assert.Equal(t, DefaultEmbedConcurrency, cfg.Embedding.Concurrency)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Chunking, cfg.Chunking)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
max_file_size = 1048576

[chunking]
chunk_size = 500
overlap = 50

[search]
threshold = 0.7
limit = 10

[embedding]
provider = "ollama"
model = "nomic-embed-text"
base_url = "http://localhost:11434"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(1048576), cfg.MaxFileSize)
	assert.Equal(t, 500, cfg.Chunking.ChunkSize)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, 0.7, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultChunkMinLength, cfg.Chunking.MinLength)
	assert.Equal(t, DefaultMaxChunks, cfg.Chunking.MaxChunks)
	assert.Equal(t, DefaultTruncateChars, cfg.Embedding.TruncateChars)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("KBASE_EMBEDDING_API_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[embedding]\napi_key = \"sk-from-file\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey)
}
