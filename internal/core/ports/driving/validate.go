package driving

import (
	"context"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
)

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	// Strict requires every expected chunk ID to be present for a
	// document to count as found. The default (false) matches the
	// coarse historical semantics: found if any expected ID exists.
	Strict bool
}

// Validator runs the read path: re-derive the expected chunk IDs for each
// document without re-embedding and confirm their presence in the index.
type Validator interface {
	// ValidateDirectory checks all text documents under dir against the
	// index and returns the aggregate report.
	ValidateDirectory(ctx context.Context, dir string, opts ValidateOptions) (*domain.ValidationReport, error)
}
