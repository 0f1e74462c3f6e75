package services

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/veldt-labs/textvec-cli/internal/chunker"
	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driving"
	"github.com/veldt-labs/textvec-cli/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.Validator = (*ValidationService)(nil)

// ValidationService runs the read path. It re-derives chunk IDs with the
// same chunker and ID derivation the upload path uses and checks their
// presence in the index by fetch, never by re-embedding. Validation
// needs no upload history: identifiers are always recomputed.
type ValidationService struct {
	source  driven.DocumentSource
	chunker *chunker.Chunker
	index   driven.VectorIndex
}

// NewValidationService creates the validator. The chunker must be
// configured with the same token bounds the upload path used, or the
// expected chunk counts will not line up.
func NewValidationService(
	source driven.DocumentSource,
	ch *chunker.Chunker,
	index driven.VectorIndex,
) *ValidationService {
	return &ValidationService{
		source:  source,
		chunker: ch,
		index:   index,
	}
}

// ValidateDirectory checks every text document under dir against the
// index. By default a document counts as found when any of its expected
// IDs exists; opts.Strict requires all of them.
func (s *ValidationService) ValidateDirectory(
	ctx context.Context,
	dir string,
	opts driving.ValidateOptions,
) (*domain.ValidationReport, error) {
	report := &domain.ValidationReport{RunID: uuid.New().String(), Strict: opts.Strict}
	logger.Debug("validation run %s for %s (strict=%t)", report.RunID, dir, opts.Strict)

	paths, err := s.source.List(ctx, dir)
	if err != nil {
		return report, err
	}
	report.Documents = len(paths)
	logger.Info("Found %d text files to validate", len(paths))

	for i, path := range paths {
		if ctx.Err() != nil {
			logger.Warn("validation interrupted, stopping after %d of %d documents", i, len(paths))
			report.Interrupted = true
			break
		}

		name := filepath.Base(path)
		logger.Info("[%d/%d] Validating: %s", i+1, len(paths), name)
		s.validateDocument(ctx, path, opts.Strict, report)
	}

	return report, nil
}

func (s *ValidationService) validateDocument(ctx context.Context, path string, strict bool, report *domain.ValidationReport) {
	name := filepath.Base(path)

	text, err := s.source.Read(ctx, path)
	if err != nil {
		logger.Warn("  skipping %s: %v", name, err)
		report.Skipped++
		return
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("  no text extracted, skipping %s", name)
		report.Skipped++
		return
	}

	chunks := s.chunker.Split(text)
	ids := domain.ChunkIDs(path, len(chunks))

	present, err := s.index.Fetch(ctx, ids)
	if err != nil {
		logger.Warn("  error fetching %s: %v", name, err)
		report.NotFound++
		return
	}

	found := len(present) > 0
	if strict {
		found = len(present) == len(ids)
	}

	if found {
		logger.Info("  Found: %s", name)
		report.Found++
		return
	}

	if strict && len(present) > 0 {
		logger.Info("  Not Found: %s (%d of %d chunks present)", name, len(present), len(ids))
	} else {
		logger.Info("  Not Found: %s", name)
	}
	report.NotFound++
}
