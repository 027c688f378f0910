// File path: internal/ingest/pipeline.go
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/common/telemetry"
	"github.com/docschat/docschat/internal/profile"
	"github.com/docschat/docschat/internal/splitter"
	"github.com/docschat/docschat/internal/vector"
)

// Pipeline turns a document on disk into a persisted vector index plus a
// catalog record mirroring the chunk texts.
type Pipeline struct {
	catalog   *catalog.Store
	indexes   *vector.Store
	chunkSize int
}

func NewPipeline(cat *catalog.Store, indexes *vector.Store, chunkSize int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = splitter.DefaultChunkSize
	}
	return &Pipeline{catalog: cat, indexes: indexes, chunkSize: chunkSize}
}

// Ingest loads, splits, embeds and indexes the document at path under the
// given profile, returning its canonical name. Load and split failures are
// swallowed into an empty name so callers can distinguish "this document is
// not ingestable" from infrastructure errors, which are returned as errors.
// A duplicate identity leaves the existing record and index untouched.
func (p *Pipeline) Ingest(ctx context.Context, prof profile.Profile, path string) (string, error) {
	logger := common.Logger()
	content, err := LoadDocument(path)
	if err != nil {
		logger.Warn("ingest: document load failed", "path", path, "error", err)
		return "", nil
	}
	chunks := splitter.Split(content, p.chunkSize)
	if len(chunks) == 0 {
		logger.Warn("ingest: document is empty", "path", path)
		return "", nil
	}
	canonical := catalog.CanonicalName(filepath.Base(path))
	logger.Info("ingest: embedding document", "document", canonical, "chunks", len(chunks), "mode", prof.Mode)
	vectors, err := prof.Provider.Embed(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("embed chunks: %w", err)
	}
	ix, err := vector.Build(chunks, vectors)
	if err != nil {
		return "", fmt.Errorf("build index: %w", err)
	}
	if err := p.indexes.Persist(prof.Root, canonical, ix); err != nil {
		return "", fmt.Errorf("persist index: %w", err)
	}
	_, created, err := p.catalog.CreateDocument(ctx, prof.Mode, canonical, "", strings.Join(chunks, catalog.ChunkSeparator))
	if err != nil {
		// The index write already happened; roll it back so a record
		// never exists without its index and vice versa.
		if _, rollbackErr := p.indexes.Delete(prof.Root, canonical); rollbackErr != nil {
			logger.Error("ingest: index rollback failed", "document", canonical, "error", rollbackErr)
		}
		return "", fmt.Errorf("persist document record: %w", err)
	}
	if !created {
		logger.Info("ingest: document already known, first ingest wins", "document", canonical)
	}
	telemetry.RecordIngest(len(chunks))
	return canonical, nil
}

// Remove deletes the document's index artifact and its catalog record. Each
// missing piece is reported and skipped, never fatal.
func (p *Pipeline) Remove(ctx context.Context, prof profile.Profile, name string) error {
	logger := common.Logger()
	canonical := catalog.CanonicalName(name)
	existed, err := p.indexes.Delete(prof.Root, canonical)
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	if !existed {
		logger.Warn("ingest: no index artifact to delete", "document", canonical)
	}
	existed, err = p.catalog.DeleteDocument(ctx, prof.Mode, canonical)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if !existed {
		logger.Warn("ingest: no catalog record to delete", "document", canonical)
	}
	return nil
}
