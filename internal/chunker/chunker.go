// Package chunker provides token-window text chunking with overlap.
package chunker

import (
	"strings"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
)

// DefaultMaxTokens is the default window bound, kept well under the
// embedding model's input limit.
const DefaultMaxTokens = 6000

// DefaultOverlap is the default number of tokens shared between
// consecutive windows.
const DefaultOverlap = 100

// Chunker splits document text into overlapping token windows.
// Splitting is deterministic: the same text and settings always produce
// the same chunks, which the validation path relies on to recompute
// expected chunk counts without access to upload history.
type Chunker struct {
	tok       driven.Tokenizer
	maxTokens int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxTokens sets the window bound in tokens.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithOverlap sets the overlap between windows in tokens.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker over the given tokenizer.
func New(tok driven.Tokenizer, opts ...Option) *Chunker {
	c := &Chunker{
		tok:       tok,
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxTokens returns the configured window bound.
func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

// Split chunks text into token windows. A text within the window bound is
// returned unmodified as a single chunk with Index 0. Longer texts produce
// trimmed windows with 1-based indices; windows that are empty after
// trimming are dropped. Index assignment happens after the drop, so a
// multi-window text that collapses to one surviving chunk still gets
// Index 0 and an unsuffixed ID.
func (c *Chunker) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	tokens := c.tok.Encode(text)
	if len(tokens) <= c.maxTokens {
		return []domain.Chunk{{Index: 0, Text: text, Tokens: len(tokens)}}
	}

	step := c.maxTokens - c.overlap

	var texts []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}

		window := strings.TrimSpace(c.tok.Decode(tokens[start:end]))
		if window != "" {
			texts = append(texts, window)
		}

		// A non-positive step means overlap >= max tokens. That is a
		// configuration error; stop after one window rather than loop.
		if step <= 0 {
			break
		}
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		idx := i + 1
		if len(texts) == 1 {
			idx = 0
		}
		chunks = append(chunks, domain.Chunk{Index: idx, Text: t, Tokens: c.tok.Count(t)})
	}
	return chunks
}
