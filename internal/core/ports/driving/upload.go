package driving

import (
	"context"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
)

// Uploader runs the write path: chunk, embed, batch and upsert every
// document in a corpus directory.
type Uploader interface {
	// UploadDirectory processes all text documents under dir, one at a
	// time, and returns the aggregate report. Per-chunk and per-document
	// failures are logged and counted, not returned; only index readiness
	// failures abort the run. Cancellation stops the run between
	// documents and the partial report is still returned.
	UploadDirectory(ctx context.Context, dir string) (*domain.UploadReport, error)
}
