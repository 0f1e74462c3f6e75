package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this is separate from VectorIndex, which stores and fetches vectors.
// EmbeddingService generates vectors; VectorIndex persists them.
//
// Implementations classify failures into the domain error kinds: rate and
// quota rejections surface as domain.ErrRateLimited, input-too-long
// rejections as domain.ErrContextLength. Anything else is a plain error
// and is never retried.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536, 3072).
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
