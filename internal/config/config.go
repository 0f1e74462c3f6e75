// Package config loads the pipeline configuration from a TOML file.
// Every tunable has a documented default; a missing file yields the
// defaults unchanged. Components receive their slice of the configuration
// explicitly at construction.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "textvec.toml"

// Config is the root configuration.
type Config struct {
	Index     IndexConfig     `toml:"index"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Upload    UploadConfig    `toml:"upload"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	// Name of the index; created on first upload if absent.
	Name string `toml:"name"`

	// Dimension of stored vectors. Must match the embedding model.
	Dimension int `toml:"dimension"`

	// Metric is the similarity metric used at creation.
	Metric string `toml:"metric"`

	// Cloud and Region place a newly created serverless index.
	Cloud  string `toml:"cloud"`
	Region string `toml:"region"`

	// ReadyTimeoutSecs bounds the wait for a new index to become ready;
	// ReadyPollSecs is the poll interval.
	ReadyTimeoutSecs int `toml:"ready_timeout_secs"`
	ReadyPollSecs    int `toml:"ready_poll_secs"`
}

// EmbeddingConfig configures the embedding client and its retry policy.
type EmbeddingConfig struct {
	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint (Azure or compatible APIs).
	BaseURL string `toml:"base_url"`

	// TimeoutSecs is the per-request timeout.
	TimeoutSecs int `toml:"timeout_secs"`

	// MaxRequestTokens is the hard per-request token cap; longer chunks
	// are truncated before the request.
	MaxRequestTokens int `toml:"max_request_tokens"`

	// MaxAttempts and RetryBaseDelaySecs shape the rate-limit retry:
	// attempt n waits n times the base delay.
	MaxAttempts        int `toml:"max_attempts"`
	RetryBaseDelaySecs int `toml:"retry_base_delay_secs"`

	// RequestsPerSec proactively throttles embedding requests.
	// Zero means no throttle.
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// ChunkingConfig configures the token-window chunker.
type ChunkingConfig struct {
	// MaxTokens bounds each window.
	MaxTokens int `toml:"max_tokens"`

	// OverlapTokens is the window overlap.
	OverlapTokens int `toml:"overlap_tokens"`
}

// UploadConfig configures batching and metadata.
type UploadConfig struct {
	// BatchSize is the upsert flush threshold.
	BatchSize int `toml:"batch_size"`

	// MetadataTextChars caps the chunk text stored as metadata.
	MetadataTextChars int `toml:"metadata_text_chars"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Index: IndexConfig{
			Name:             "documents",
			Dimension:        3072,
			Metric:           "cosine",
			Cloud:            "aws",
			Region:           "us-east-1",
			ReadyTimeoutSecs: 15,
			ReadyPollSecs:    2,
		},
		Embedding: EmbeddingConfig{
			Model:              "text-embedding-3-large",
			TimeoutSecs:        60,
			MaxRequestTokens:   8190,
			MaxAttempts:        3,
			RetryBaseDelaySecs: 5,
		},
		Chunking: ChunkingConfig{
			MaxTokens:     6000,
			OverlapTokens: 100,
		},
		Upload: UploadConfig{
			BatchSize:         100,
			MetadataTextChars: 10000,
		},
	}
}

// Load reads the config at path, filling unset values with defaults.
// A missing file at the default path yields bare defaults; an explicitly
// given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
