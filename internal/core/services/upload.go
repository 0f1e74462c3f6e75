package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/veldt-labs/textvec-cli/internal/chunker"
	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driving"
	"github.com/veldt-labs/textvec-cli/internal/logger"
	"github.com/veldt-labs/textvec-cli/internal/retry"
)

// Ensure UploadService implements the interface.
var _ driving.Uploader = (*UploadService)(nil)

// Default upload limits.
const (
	// DefaultBatchSize is the upsert flush threshold.
	DefaultBatchSize = 100

	// DefaultMaxRequestTokens is the model-side input cap. Chunks above
	// it are skipped; drifted counts are truncated before the request.
	DefaultMaxRequestTokens = 8190

	// DefaultMetadataTextChars caps the chunk text stored as metadata.
	DefaultMetadataTextChars = 10000
)

// UploadLimits are the numeric knobs of the upload pipeline.
type UploadLimits struct {
	// BatchSize is the upsert flush threshold.
	BatchSize int

	// MaxRequestTokens is the hard per-request token cap.
	MaxRequestTokens int

	// MetadataTextChars caps the chunk text stored as metadata.
	MetadataTextChars int
}

// UploadService runs the write path: one document, one chunk, one
// embedding request at a time. The batch buffer is the only accumulated
// state and is owned exclusively by the processing loop.
type UploadService struct {
	source   driven.DocumentSource
	tok      driven.Tokenizer
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	policy   retry.Policy
	limiter  *rate.Limiter
	limits   UploadLimits
}

// NewUploadService creates the upload pipeline. The limiter is optional;
// nil disables proactive throttling of embedding requests.
func NewUploadService(
	source driven.DocumentSource,
	tok driven.Tokenizer,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	policy retry.Policy,
	limiter *rate.Limiter,
	limits UploadLimits,
) *UploadService {
	if limits.BatchSize <= 0 {
		limits.BatchSize = DefaultBatchSize
	}
	if limits.MaxRequestTokens <= 0 {
		limits.MaxRequestTokens = DefaultMaxRequestTokens
	}
	if limits.MetadataTextChars <= 0 {
		limits.MetadataTextChars = DefaultMetadataTextChars
	}

	return &UploadService{
		source:   source,
		tok:      tok,
		chunker:  ch,
		embedder: embedder,
		index:    index,
		policy:   policy,
		limiter:  limiter,
		limits:   limits,
	}
}

// UploadDirectory processes every text document under dir in stable
// order. Only index readiness and directory listing failures abort the
// run; everything else is logged, counted and skipped. On cancellation
// the in-flight document completes and the partial report is returned.
func (s *UploadService) UploadDirectory(ctx context.Context, dir string) (*domain.UploadReport, error) {
	report := &domain.UploadReport{RunID: uuid.New().String()}
	logger.Debug("upload run %s for %s (model %s)", report.RunID, dir, s.embedder.ModelName())

	if s.tok.Approximate() {
		logger.Warn("native token counting unavailable; counts are approximate")
	}

	if err := s.index.EnsureIndex(ctx); err != nil {
		return report, fmt.Errorf("ensure index: %w", err)
	}
	logger.Info("Index is ready.")

	paths, err := s.source.List(ctx, dir)
	if err != nil {
		return report, err
	}
	report.Documents = len(paths)
	logger.Info("Found %d text files", len(paths))

	for i, path := range paths {
		if ctx.Err() != nil {
			logger.Warn("upload interrupted, stopping after %d of %d documents", i, len(paths))
			report.Interrupted = true
			break
		}

		logger.Info("[%d/%d] Processing: %s", i+1, len(paths), filepath.Base(path))
		s.uploadDocument(ctx, path, report)
	}

	return report, nil
}

// uploadDocument chunks, embeds and batches a single document. Failures
// never propagate: each is logged with its cause and counted.
func (s *UploadService) uploadDocument(ctx context.Context, path string, report *domain.UploadReport) {
	name := filepath.Base(path)

	text, err := s.source.Read(ctx, path)
	if err != nil {
		logger.Warn("skipping %s: %v", name, err)
		report.DocumentsSkipped++
		return
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("skipping %s: no text extracted", name)
		report.DocumentsSkipped++
		return
	}
	logger.Info("  extracted text (%d chars, ~%d tokens)", len(text), s.tok.Count(text))

	chunks := s.chunker.Split(text)
	logger.Info("  created %d chunk(s)", len(chunks))

	batch := make([]domain.Vector, 0, s.limits.BatchSize)
	embedded := 0

	for _, ch := range chunks {
		report.ChunksConsidered++

		if ch.Tokens == 0 {
			logger.Warn("  chunk %d is empty, skipping", ch.Index)
			continue
		}
		if ch.Tokens > s.limits.MaxRequestTokens {
			logger.Warn("  chunk %d too large (%d tokens), skipping", ch.Index, ch.Tokens)
			continue
		}

		values, err := s.embed(ctx, ch.Text)
		if err != nil {
			logger.Warn("  chunk %d embedding failed, skipping: %v", ch.Index, err)
			continue
		}

		batch = append(batch, domain.Vector{
			ID:       domain.ChunkID(path, ch.Index),
			Values:   values,
			Metadata: s.metadata(name, ch, len(chunks)),
		})
		report.ChunksEmbedded++
		embedded++

		if len(batch) >= s.limits.BatchSize {
			batch = s.flush(ctx, batch, report)
		}
	}

	// Remainder at document end.
	s.flush(ctx, batch, report)

	if embedded > 0 {
		report.DocumentsUploaded++
	}
	logger.Info("  completed (%d/%d chunks uploaded)", embedded, len(chunks))
}

// flush upserts the accumulated batch. The batch is the unit of failure:
// on error its vectors are dropped from the run, not resubmitted; the
// document can be re-run later because IDs are deterministic and upsert
// is idempotent.
func (s *UploadService) flush(ctx context.Context, batch []domain.Vector, report *domain.UploadReport) []domain.Vector {
	if len(batch) == 0 {
		return batch
	}

	if err := s.index.Upsert(ctx, batch); err != nil {
		logger.Warn("  upload error, dropping %d vectors: %v", len(batch), err)
		report.BatchesFailed++
	} else {
		logger.Info("  uploaded %d vectors", len(batch))
		report.VectorsUpserted += len(batch)
	}
	return batch[:0]
}

// embed requests one embedding, truncating oversized input first and
// retrying rate-limited attempts under the injected policy. Truncation
// happens here even though the chunker already bounds windows: decode and
// re-encode round trips can drift the count past the model cap.
func (s *UploadService) embed(ctx context.Context, text string) ([]float32, error) {
	if n := s.tok.Count(text); n > s.limits.MaxRequestTokens {
		logger.Warn("  text has %d tokens, truncating to %d", n, s.limits.MaxRequestTokens)
		tokens := s.tok.Encode(text)
		if len(tokens) > s.limits.MaxRequestTokens {
			tokens = tokens[:s.limits.MaxRequestTokens]
		}
		text = s.tok.Decode(tokens)
	}

	var values []float32
	err := s.policy.Do(func() error {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		v, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return err
		}
		values = v
		return nil
	}, func(attempt int, wait time.Duration, err error) {
		logger.Debug("rate limit hit on attempt %d, waiting %s: %v", attempt, wait, err)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// metadata builds the vector metadata: source filename, capped chunk
// text, and chunk numbering only for multi-chunk documents.
func (s *UploadService) metadata(name string, ch domain.Chunk, total int) map[string]any {
	text := ch.Text
	if runes := []rune(text); len(runes) > s.limits.MetadataTextChars {
		text = string(runes[:s.limits.MetadataTextChars])
	}

	m := map[string]any{
		"source": name,
		"text":   text,
	}
	if total > 1 {
		m["chunk"] = ch.Index
		m["total_chunks"] = total
	}
	return m
}
