package domain

// UploadReport aggregates the outcome of one upload run. Counters are
// best-effort totals; every skipped unit also produces a log line with
// its cause.
type UploadReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Documents is the number of documents listed in the corpus directory.
	Documents int

	// DocumentsUploaded counts documents with at least one vector queued.
	DocumentsUploaded int

	// DocumentsSkipped counts documents that yielded no text.
	DocumentsSkipped int

	// ChunksConsidered counts chunks produced by the chunker.
	ChunksConsidered int

	// ChunksEmbedded counts chunks successfully embedded and queued.
	ChunksEmbedded int

	// VectorsUpserted counts vectors accepted by the index.
	VectorsUpserted int

	// BatchesFailed counts upsert batches that were logged and dropped.
	BatchesFailed int

	// Interrupted is set when the run stopped early on cancellation,
	// after completing the in-flight document.
	Interrupted bool
}

// ValidationReport aggregates the outcome of one validation run.
type ValidationReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Documents is the number of documents listed in the corpus directory.
	Documents int

	// Found counts documents whose expected IDs were present in the index.
	Found int

	// NotFound counts documents with missing IDs (any missing under
	// strict checking, all missing otherwise).
	NotFound int

	// Skipped counts documents that yielded no text.
	Skipped int

	// Strict records which presence semantics the run used.
	Strict bool

	// Interrupted is set when the run stopped early on cancellation.
	Interrupted bool
}
