// File path: internal/ingest/loader.go
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat reports a document the loader cannot decode. The
// pipeline treats it as an ingestion failure, not a fatal error.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var textExtensions = map[string]struct{}{
	".txt":      {},
	".md":       {},
	".markdown": {},
	".rst":      {},
	".log":      {},
	".csv":      {},
}

// LoadDocument reads a plain-text document from disk. Binary or unknown
// formats are rejected rather than indexed as garbage.
func LoadDocument(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := textExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrUnsupportedFormat)
	}
	return string(data), nil
}
