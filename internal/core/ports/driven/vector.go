package driven

import (
	"context"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
)

// VectorIndex is the persistent vector store, addressed by a name fixed at
// construction. Entries are keyed by chunk ID; upsert is idempotent, so the
// same ID written twice holds the latest values with no duplicates.
type VectorIndex interface {
	// EnsureIndex creates the index with the configured dimension, metric
	// and region if it does not exist, then blocks until it reports ready
	// or the readiness timeout elapses (domain.ErrIndexNotReady). If the
	// index already exists it connects directly.
	EnsureIndex(ctx context.Context) error

	// Upsert writes a batch of vectors. The batch is the unit of failure:
	// on error none of its vectors should be assumed stored.
	Upsert(ctx context.Context, vectors []domain.Vector) error

	// Fetch returns the stored vectors for the given IDs, keyed by ID.
	// Absent IDs are simply omitted from the result. Used by the
	// validation path; never recomputes embeddings.
	Fetch(ctx context.Context, ids []string) (map[string]domain.Vector, error)

	// Close releases resources.
	Close() error
}
