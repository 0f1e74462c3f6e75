package services

import (
	"context"
	"io"
	"os"
	"sort"
	"testing"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// runeTok treats every rune as one token so window maths stays visible.
type runeTok struct{}

func (runeTok) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeTok) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tk := range tokens {
		runes[i] = rune(tk)
	}
	return string(runes)
}

func (runeTok) Count(text string) int { return len([]rune(text)) }
func (runeTok) Approximate() bool     { return false }

// fakeSource serves documents from a map keyed by path.
type fakeSource struct {
	docs     map[string]string
	readErrs map[string]error
	onRead   func(path string)
}

func (f *fakeSource) List(_ context.Context, _ string) ([]string, error) {
	paths := make([]string, 0, len(f.docs))
	for p := range f.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (f *fakeSource) Read(_ context.Context, path string) (string, error) {
	if f.onRead != nil {
		f.onRead(path)
	}
	if err, ok := f.readErrs[path]; ok {
		return "", err
	}
	return f.docs[path], nil
}

// fakeEmbedder returns a counter-stamped vector per call and can fail
// scripted attempts.
type fakeEmbedder struct {
	texts []string
	errs  []error // consumed one per call; nil entries succeed
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []float32{float32(f.calls)}, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 1 }
func (f *fakeEmbedder) ModelName() string { return "fake-embedding-model" }
func (f *fakeEmbedder) Close() error      { return nil }

// fakeIndex records upserts and serves fetches from its stored map.
type fakeIndex struct {
	ensureErr  error
	ensured    int
	upserts    [][]domain.Vector
	upsertErrs []error // consumed one per Upsert call
	fetchErr   error
	stored     map[string]domain.Vector
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{stored: map[string]domain.Vector{}}
}

func (f *fakeIndex) EnsureIndex(_ context.Context) error {
	f.ensured++
	return f.ensureErr
}

func (f *fakeIndex) Upsert(_ context.Context, vectors []domain.Vector) error {
	if len(f.upsertErrs) > 0 {
		err := f.upsertErrs[0]
		f.upsertErrs = f.upsertErrs[1:]
		if err != nil {
			return err
		}
	}
	batch := make([]domain.Vector, len(vectors))
	copy(batch, vectors)
	f.upserts = append(f.upserts, batch)
	for _, v := range vectors {
		f.stored[v.ID] = v
	}
	return nil
}

func (f *fakeIndex) Fetch(_ context.Context, ids []string) (map[string]domain.Vector, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	found := map[string]domain.Vector{}
	for _, id := range ids {
		if v, ok := f.stored[id]; ok {
			found[id] = v
		}
	}
	return found, nil
}

func (f *fakeIndex) Close() error { return nil }

// storedIDs returns the index contents in stable order.
func (f *fakeIndex) storedIDs() []string {
	ids := make([]string, 0, len(f.stored))
	for id := range f.stored {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

