package main

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/veldt-labs/textvec-cli/internal/adapters/driven/embedding/openai"
	"github.com/veldt-labs/textvec-cli/internal/adapters/driven/index/pinecone"
	"github.com/veldt-labs/textvec-cli/internal/adapters/driven/source/filesystem"
	"github.com/veldt-labs/textvec-cli/internal/adapters/driving/cli"
	"github.com/veldt-labs/textvec-cli/internal/chunker"
	"github.com/veldt-labs/textvec-cli/internal/config"
	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
	"github.com/veldt-labs/textvec-cli/internal/core/services"
	"github.com/veldt-labs/textvec-cli/internal/logger"
	"github.com/veldt-labs/textvec-cli/internal/retry"
	"github.com/veldt-labs/textvec-cli/internal/tokenizer/tiktoken"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Best effort: API keys may come from a .env file next to the binary.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetFactory(buildPipeline)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline assembles the upload and validation services from the
// config file and environment credentials.
func buildPipeline(configPath string) (*cli.Pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	tok := newTokenizer()
	ch := chunker.New(tok,
		chunker.WithMaxTokens(cfg.Chunking.MaxTokens),
		chunker.WithOverlap(cfg.Chunking.OverlapTokens),
	)
	src := filesystem.New()

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	index, err := pinecone.New(pinecone.Config{
		APIKey:       os.Getenv("PINECONE_API_KEY"),
		IndexName:    cfg.Index.Name,
		Dimension:    cfg.Index.Dimension,
		Metric:       cfg.Index.Metric,
		Cloud:        cfg.Index.Cloud,
		Region:       regionFromEnv(cfg.Index.Region),
		ReadyTimeout: time.Duration(cfg.Index.ReadyTimeoutSecs) * time.Second,
		ReadyPoll:    time.Duration(cfg.Index.ReadyPollSecs) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Embedding.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Embedding.RetryBaseDelaySecs) * time.Second,
		Retryable: func(err error) bool {
			return errors.Is(err, domain.ErrRateLimited)
		},
		Sleep: time.Sleep,
	}

	var limiter *rate.Limiter
	if cfg.Embedding.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Embedding.RequestsPerSec), 1)
	}

	uploader := services.NewUploadService(src, tok, ch, embedder, index, policy, limiter,
		services.UploadLimits{
			BatchSize:         cfg.Upload.BatchSize,
			MaxRequestTokens:  cfg.Embedding.MaxRequestTokens,
			MetadataTextChars: cfg.Upload.MetadataTextChars,
		})
	validator := services.NewValidationService(src, ch, index)

	return &cli.Pipeline{Uploader: uploader, Validator: validator}, nil
}

// newTokenizer prefers exact native counting and falls back to the
// approximate estimator when the encoding cannot be loaded.
func newTokenizer() driven.Tokenizer {
	tok, err := tiktoken.New()
	if err != nil {
		logger.Warn("tokenizer unavailable (%v), falling back to approximate counting", err)
		return tiktoken.NewFallback()
	}
	return tok
}

// regionFromEnv lets PINECONE_REGION or PINECONE_ENVIRONMENT override the
// configured region.
func regionFromEnv(configured string) string {
	if r := os.Getenv("PINECONE_REGION"); r != "" {
		return r
	}
	if r := os.Getenv("PINECONE_ENVIRONMENT"); r != "" {
		return r
	}
	return configured
}
