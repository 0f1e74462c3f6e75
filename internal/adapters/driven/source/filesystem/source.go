// Package filesystem provides a document source reading extracted .txt
// files from a local directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
	"github.com/veldt-labs/textvec-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Extension is the file-extension convention of the document-to-text
// collaborator.
const Extension = ".txt"

// Source lists and reads extracted text documents.
type Source struct{}

// New creates a filesystem document source.
func New() *Source {
	return &Source{}
}

// List returns the .txt files directly under dir, sorted lexicographically
// for stable processing order.
func (s *Source) List(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Read loads the document text, trying UTF-8, UTF-16, Latin-1 and
// Windows-1252 in order and accepting the first decode that succeeds.
// Latin-1 maps every byte, so in practice nothing falls through, which
// matches the historical behaviour of this fallback chain.
func (s *Source) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	if text, ok := decodeUTF16(data); ok {
		logger.Debug("decoded %s as utf-16", filepath.Base(path))
		return text, nil
	}

	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		if text, ok := decodeWith(cm.NewDecoder(), data); ok {
			logger.Debug("decoded %s as %s", filepath.Base(path), cm)
			return text, nil
		}
	}

	logger.Warn("could not decode %s with any supported encoding", filepath.Base(path))
	return "", nil
}

// decodeUTF16 decodes byte-order-marked UTF-16. Data without a BOM is not
// treated as UTF-16; guessing the byte order would happily "decode"
// arbitrary binary.
func decodeUTF16(data []byte) (string, bool) {
	if len(data) < 2 {
		return "", false
	}
	bom := (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
	if !bom {
		return "", false
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	return decodeWith(dec, data)
}

func decodeWith(dec *encoding.Decoder, data []byte) (string, bool) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}
