package chunker

import (
	"strings"
	"testing"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
)

// runeTokenizer treats every rune as one token, which makes window
// arithmetic visible in test strings.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tk := range tokens {
		runes[i] = rune(tk)
	}
	return string(runes)
}

func (runeTokenizer) Count(text string) int { return len([]rune(text)) }
func (runeTokenizer) Approximate() bool     { return false }

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New(runeTokenizer{})
		if c.maxTokens != DefaultMaxTokens {
			t.Errorf("expected maxTokens %d, got %d", DefaultMaxTokens, c.maxTokens)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.overlap)
		}
	})

	t.Run("custom bounds", func(t *testing.T) {
		c := New(runeTokenizer{}, WithMaxTokens(500), WithOverlap(50))
		if c.maxTokens != 500 || c.overlap != 50 {
			t.Errorf("options not applied: max=%d overlap=%d", c.maxTokens, c.overlap)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		c := New(runeTokenizer{}, WithMaxTokens(0), WithOverlap(-1))
		if c.maxTokens != DefaultMaxTokens || c.overlap != DefaultOverlap {
			t.Errorf("invalid options should keep defaults: max=%d overlap=%d", c.maxTokens, c.overlap)
		}
	})
}

func TestSplit_EmptyText(t *testing.T) {
	c := New(runeTokenizer{})
	if chunks := c.Split(""); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
}

func TestSplit_SingleChunkPassthrough(t *testing.T) {
	// Text within the bound comes back untouched, index 0.
	c := New(runeTokenizer{}, WithMaxTokens(100), WithOverlap(10))
	text := "  hello world  "

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Text != text {
		t.Errorf("single chunk must carry the original text, got %q", chunks[0].Text)
	}
	if chunks[0].Tokens != len([]rune(text)) {
		t.Errorf("unexpected token count %d", chunks[0].Tokens)
	}
}

func TestSplit_WindowOffsets(t *testing.T) {
	// 15 tokens, max 6, overlap 1: windows [0,6), [5,11), [10,15).
	c := New(runeTokenizer{}, WithMaxTokens(6), WithOverlap(1))
	text := "abcdefghijklmno"

	chunks := c.Split(text)
	want := []domain.Chunk{
		{Index: 1, Text: "abcdef", Tokens: 6},
		{Index: 2, Text: "fghijk", Tokens: 6},
		{Index: 3, Text: "klmno", Tokens: 5},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %+v, got %+v", i, want[i], chunks[i])
		}
	}
}

func TestSplit_OverlapBound(t *testing.T) {
	// Consecutive chunks share exactly overlap tokens.
	const overlap = 3
	c := New(runeTokenizer{}, WithMaxTokens(10), WithOverlap(overlap))
	text := "abcdefghijklmnopqrstuvwxyz0123456789"

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i].Text[len(chunks[i].Text)-overlap:]
		head := chunks[i+1].Text[:overlap]
		if tail != head {
			t.Errorf("chunks %d/%d: overlap mismatch %q vs %q", i, i+1, tail, head)
		}
	}
}

func TestSplit_Coverage(t *testing.T) {
	// Dropping each window's leading overlap reconstructs the original.
	const overlap = 2
	c := New(runeTokenizer{}, WithMaxTokens(8), WithOverlap(overlap))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := c.Split(text)
	var b strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			b.WriteString(ch.Text)
			continue
		}
		b.WriteString(ch.Text[overlap:])
	}
	if b.String() != text {
		t.Errorf("chunks do not cover the original: got %q", b.String())
	}
}

func TestSplit_DropsWhitespaceWindows(t *testing.T) {
	// max 4, overlap 0: windows "ab  ", "    ", "cd"; the blank window
	// is dropped after trimming.
	c := New(runeTokenizer{}, WithMaxTokens(4), WithOverlap(0))
	text := "ab      cd"

	chunks := c.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Text != "ab" || chunks[1].Text != "cd" {
		t.Errorf("unexpected chunk texts: %q, %q", chunks[0].Text, chunks[1].Text)
	}
	if chunks[0].Index != 1 || chunks[1].Index != 2 {
		t.Errorf("unexpected indices: %d, %d", chunks[0].Index, chunks[1].Index)
	}
}

func TestSplit_CollapseToSingleSurvivor(t *testing.T) {
	// Multiple windows where all but one trim to nothing: the survivor
	// is a single chunk and gets index 0 (unsuffixed ID).
	c := New(runeTokenizer{}, WithMaxTokens(6), WithOverlap(0))
	text := "ab" + strings.Repeat(" ", 8)

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("sole surviving chunk should have index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Text != "ab" {
		t.Errorf("unexpected text %q", chunks[0].Text)
	}
}

func TestSplit_NonPositiveStepStopsAfterOneWindow(t *testing.T) {
	// overlap == max is a configuration error; the guard stops after a
	// single window instead of looping forever.
	c := New(runeTokenizer{}, WithMaxTokens(4), WithOverlap(4))
	text := "abcdefghij"

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "abcd" {
		t.Errorf("unexpected text %q", chunks[0].Text)
	}
}
