package domain

// Vector is an embedding with its identity and metadata, the unit of upsert.
// It is owned by the upload pipeline's batch buffer until upserted and is
// not retained afterwards.
type Vector struct {
	// ID is the chunk identifier derived by ChunkID.
	ID string

	// Values is the fixed-dimension embedding.
	Values []float32

	// Metadata carries the source filename, the (truncated) chunk text
	// and, for multi-chunk documents only, the chunk index and total
	// chunk count.
	Metadata map[string]any
}
