// Package tiktoken provides token counting matched to the OpenAI
// embedding model family, with an approximate fallback.
package tiktoken

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
)

// EncodingName is the BPE encoding shared by gpt-4 and the
// text-embedding-3-* models.
const EncodingName = "cl100k_base"

// Ensure both implementations satisfy the port.
var (
	_ driven.Tokenizer = (*Tokenizer)(nil)
	_ driven.Tokenizer = (*Fallback)(nil)
)

// Tokenizer wraps the native cl100k_base encoder.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New creates a native tokenizer. Construction can fail when the encoding
// data is unavailable; callers should fall back to NewFallback and flag
// counts as approximate.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(EncodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", EncodingName, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode converts text to token codes.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode converts token codes back to text.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Count returns the exact token count of text.
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Approximate reports false: native counts are exact.
func (t *Tokenizer) Approximate() bool {
	return false
}

// Fallback estimates token counts as one token per three characters, a
// conservative ratio for this model family. Encode and Decode operate on
// runes so truncation still works, but counts no longer agree with
// len(Encode), so the hard truncation bound is only approximate.
type Fallback struct{}

// NewFallback creates the approximate tokenizer.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Encode returns the text's code points.
func (f *Fallback) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

// Decode reassembles code points into text.
func (f *Fallback) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

// Count estimates the token count.
func (f *Fallback) Count(text string) int {
	return utf8.RuneCountInString(text) / 3
}

// Approximate reports true.
func (f *Fallback) Approximate() bool {
	return true
}
