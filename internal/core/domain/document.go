package domain

import (
	"crypto/md5" //nolint:gosec // IDs are content-addressable keys, not security material
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxStemLength bounds the sanitised filename portion of a chunk ID.
const MaxStemLength = 50

// Document is a unit of source text identified by its filesystem path.
// It is immutable once loaded and lives for a single pipeline pass.
type Document struct {
	// Path is the filesystem location the document was read from.
	// It is the sole input to ID derivation, so it must be the same
	// string at upload time and validation time.
	Path string

	// Content is the full extracted text after encoding detection.
	Content string
}

// Name returns the document's base filename, used as the metadata source label.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}

// Chunk is a bounded token-window slice of a document, the unit of embedding.
type Chunk struct {
	// Index is the 1-based position within the document when the document
	// produced more than one chunk. Index 0 means the document fit in a
	// single chunk and its ID carries no suffix.
	Index int

	// Text is the decoded, whitespace-trimmed window content.
	Text string

	// Tokens is the token count of Text as measured by the tokenizer
	// that produced the window.
	Tokens int
}

// ChunkID derives the deterministic index key for a chunk of the document
// at path. The same (path, index) pair always yields the same ID, on both
// the upload path and the validation path; this is the join key between
// the two and must be reproducible without access to the embedding.
//
// Format: {8-hex-md5-of-path}_{sanitised-stem} for index 0, with a
// _chunk_%03d suffix for index >= 1.
func ChunkID(path string, index int) string {
	sum := md5.Sum([]byte(path)) //nolint:gosec
	hash := hex.EncodeToString(sum[:])[:8]
	stem := sanitiseStem(path)
	if index > 0 {
		return fmt.Sprintf("%s_%s_chunk_%03d", hash, stem, index)
	}
	return hash + "_" + stem
}

// ChunkIDs derives the full expected ID set for a document that produced
// total chunks. A single-chunk document yields one unsuffixed ID.
func ChunkIDs(path string, total int) []string {
	if total <= 0 {
		return nil
	}
	if total == 1 {
		return []string{ChunkID(path, 0)}
	}
	ids := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		ids = append(ids, ChunkID(path, i))
	}
	return ids
}

// sanitiseStem reduces the filename stem to alphanumerics, '-' and '_',
// truncated to MaxStemLength.
func sanitiseStem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= MaxStemLength {
			break
		}
	}
	return b.String()
}
