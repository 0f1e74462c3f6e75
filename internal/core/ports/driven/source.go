package driven

import "context"

// DocumentSource abstracts the folder of extracted text files deposited by
// the acquisition collaborators. The pipeline's only dependency on them is
// "a folder of .txt files becomes available".
type DocumentSource interface {
	// List returns the paths of text documents under dir in lexicographic
	// order. Ordering is not semantically required but must be stable so
	// logs are reproducible across runs.
	List(ctx context.Context, dir string) ([]string, error)

	// Read returns the document text, attempting each supported encoding
	// in order and accepting the first successful decode. A document that
	// cannot be decoded yields empty text.
	Read(ctx context.Context, path string) (string, error)
}
