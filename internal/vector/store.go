// File path: internal/vector/store.go
package vector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docschat/docschat/internal/common"
)

// ErrIndexNotFound reports a missing on-disk index. The engine treats this
// as a fatal retrieval error: a document record without its index is an
// inconsistency, not an empty result.
var ErrIndexNotFound = errors.New("vector index not found")

const indexSuffix = ".index.json"

// Store persists per-document indexes as JSON artifacts under a mode's
// storage namespace root, keyed by the document's canonical name.
type Store struct {
	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{}
}

// Persist writes the index atomically: a temp file in the same directory is
// renamed over the target so readers never observe a half-written index.
func (s *Store) Persist(root, name string, ix *Index) error {
	if s == nil {
		return errors.New("vector store not initialised")
	}
	if ix == nil {
		return errors.New("nil index")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("index name required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	ix.Name = name
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.path(root, name)
	tmp, err := os.CreateTemp(root, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit index: %w", err)
	}
	common.Logger().Debug("vector: index persisted", "name", name, "chunks", len(ix.Chunks))
	return nil
}

// Load reads a persisted index back. A missing artifact is ErrIndexNotFound.
func (s *Store) Load(root, name string) (*Index, error) {
	if s == nil {
		return nil, errors.New("vector store not initialised")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", name, err)
	}
	return &ix, nil
}

// Delete removes the index artifact and reports whether it existed. A
// missing artifact is a reported no-op.
func (s *Store) Delete(root, name string) (bool, error) {
	if s == nil {
		return false, errors.New("vector store not initialised")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(root, name))
	if errors.Is(err, fs.ErrNotExist) {
		common.Logger().Warn("vector: delete of absent index", "name", name)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete index: %w", err)
	}
	return true, nil
}

func (s *Store) path(root, name string) string {
	return filepath.Join(root, name+indexSuffix)
}
