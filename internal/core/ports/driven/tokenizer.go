package driven

// Tokenizer converts text to token codes and back. It is used for exact
// length accounting against model input limits, not for semantics, and
// must match the encoding scheme of the target embedding model family.
type Tokenizer interface {
	// Encode converts text to a sequence of token codes.
	Encode(text string) []int

	// Decode converts token codes back to text.
	Decode(tokens []int) string

	// Count returns the number of tokens in text.
	Count(text string) int

	// Approximate reports whether counts are estimates rather than exact.
	// Approximate counting weakens the hard truncation contract, so
	// callers should log when an approximate tokenizer is in use.
	Approximate() bool
}
