// Package config loads the engine configuration from a TOML file in the
// kbase config directory, applying defaults for anything unset.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for the knowledge-base engine.
const (
	DefaultMaxFileSize        = 10 * 1024 * 1024 // 10 MiB
	DefaultChunkSize          = 800
	DefaultChunkOverlap       = 100
	DefaultChunkMinLength     = 20
	DefaultMaxChunks          = 100
	DefaultSearchThreshold    = 0.6
	DefaultSearchLimit        = 5
	DefaultSearchMaxLimit     = 50
	DefaultTruncateChars      = 8000
	DefaultEmbedConcurrency   = 2
	DefaultRequestsPerSecond  = 5.0
	DefaultRelevanceMaxWeight = 0.6
)

// Config is the engine configuration surface.
type Config struct {
	// MaxFileSize is the upload size limit in bytes.
	MaxFileSize int64 `toml:"max_file_size"`

	// DataDir is where the SQLite store lives. Empty means
	// ~/.kbase/data.
	DataDir string `toml:"data_dir"`

	Chunking  Chunking  `toml:"chunking"`
	Search    Search    `toml:"search"`
	Embedding Embedding `toml:"embedding"`
}

// Chunking configures both chunking strategies.
type Chunking struct {
	// ChunkSize is the target chunk size in characters.
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the overlap between consecutive generic chunks.
	Overlap int `toml:"overlap"`

	// MinLength is the minimum trimmed chunk length worth keeping.
	MinLength int `toml:"min_length"`

	// MaxChunks is the hard cap on chunks per document.
	MaxChunks int `toml:"max_chunks"`
}

// Search configures ranking defaults.
type Search struct {
	// Threshold is the default minimum cosine similarity.
	Threshold float64 `toml:"threshold"`

	// Limit is the default number of results.
	Limit int `toml:"limit"`

	// MaxLimit caps the per-request result limit.
	MaxLimit int `toml:"max_limit"`

	// MaxWeight is the weight of the best chunk similarity in the
	// relevance blend; the average gets the complement.
	MaxWeight float64 `toml:"max_weight"`
}

// Embedding configures the provider adapter.
type Embedding struct {
	// Provider selects the adapter: "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against hosted providers. The
	// KBASE_EMBEDDING_API_KEY environment variable takes precedence.
	APIKey string `toml:"api_key"`

	// TruncateChars is the input truncation limit per call.
	TruncateChars int `toml:"truncate_chars"`

	// Concurrency bounds parallel embedding calls per document.
	Concurrency int `toml:"concurrency"`

	// RequestsPerSecond throttles provider calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		MaxFileSize: DefaultMaxFileSize,
		Chunking: Chunking{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
			MinLength: DefaultChunkMinLength,
			MaxChunks: DefaultMaxChunks,
		},
		Search: Search{
			Threshold: DefaultSearchThreshold,
			Limit:     DefaultSearchLimit,
			MaxLimit:  DefaultSearchMaxLimit,
			MaxWeight: DefaultRelevanceMaxWeight,
		},
		Embedding: Embedding{
			Provider:          "openai",
			TruncateChars:     DefaultTruncateChars,
			Concurrency:       DefaultEmbedConcurrency,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
	}
}

// Load reads the TOML config file at path, filling unset fields with
// defaults. A missing file yields the defaults. If path is empty,
// ~/.kbase/config.toml is used.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".kbase", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// fillDefaults restores defaults for fields the file zeroed out.
func (c *Config) fillDefaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = DefaultChunkSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Chunking.MinLength <= 0 {
		c.Chunking.MinLength = DefaultChunkMinLength
	}
	if c.Chunking.MaxChunks <= 0 {
		c.Chunking.MaxChunks = DefaultMaxChunks
	}
	if c.Search.Threshold <= 0 {
		c.Search.Threshold = DefaultSearchThreshold
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = DefaultSearchLimit
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = DefaultSearchMaxLimit
	}
	if c.Search.MaxWeight <= 0 || c.Search.MaxWeight > 1 {
		c.Search.MaxWeight = DefaultRelevanceMaxWeight
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.TruncateChars <= 0 {
		c.Embedding.TruncateChars = DefaultTruncateChars
	}
	if c.Embedding.Concurrency <= 0 {
		c.Embedding.Concurrency = DefaultEmbedConcurrency
	}
	if c.Embedding.RequestsPerSecond <= 0 {
		c.Embedding.RequestsPerSecond = DefaultRequestsPerSecond
	}
}

// applyEnv lets the environment override secrets kept out of the file.
func (c *Config) applyEnv() {
	if key := os.Getenv("KBASE_EMBEDDING_API_KEY"); key != "" {
		c.Embedding.APIKey = key
	}
}
