// File path: internal/catalog/documents.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/profile"
)

// ChunkSeparator joins chunk texts inside a document's content column so the
// original chunking can be reconstructed.
const ChunkSeparator = "<SEPARATOR>"

// ErrNotFound reports a missing document record. Recoverable: the caller may
// retry with a corrected name.
var ErrNotFound = errors.New("document not found")

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// CanonicalName normalises a document name so it is safe as a filesystem and
// index key. Every path that derives an identity must go through this.
func CanonicalName(name string) string {
	return nonAlphanumeric.ReplaceAllString(name, "_")
}

// Identity derives the deduplication key for a document. Pure and stable for
// a given (mode, name) pair.
func Identity(mode profile.Mode, name string) string {
	return fmt.Sprintf("%s_%s", mode, CanonicalName(name))
}

// CreateDocument inserts a document record if its identity is absent and
// reports whether a row was written. An existing identity is preserved
// untouched: first ingest wins. Only the identity conflict is swallowed;
// unrelated failures surface as errors.
func (s *Store) CreateDocument(ctx context.Context, mode profile.Mode, name, description, content string) (string, bool, error) {
	if err := s.ensureReady(); err != nil {
		return "", false, err
	}
	canonical := CanonicalName(name)
	identity := Identity(mode, name)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (identity, name, mode, description, content)
                 VALUES (?, ?, ?, ?, ?)
                 ON CONFLICT(identity) DO NOTHING`,
		identity, canonical, string(mode), description, content)
	if err != nil {
		return "", false, fmt.Errorf("create document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("create document result: %w", err)
	}
	if affected == 0 {
		common.Logger().Debug("catalog: document already present, insert skipped", "identity", identity)
	}
	return identity, affected > 0, nil
}

// GetDocument looks a record up by its computed identity.
func (s *Store) GetDocument(ctx context.Context, mode profile.Mode, name string) (Document, error) {
	if err := s.ensureReady(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.db.GetContext(ctx, &doc,
		`SELECT identity, name, mode, description, content, created_at, updated_at
                 FROM documents WHERE identity = ?`, Identity(mode, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a record and reports whether it existed. A missing
// record is a reported no-op, never a failure.
func (s *Store) DeleteDocument(ctx context.Context, mode profile.Mode, name string) (bool, error) {
	if err := s.ensureReady(); err != nil {
		return false, err
	}
	identity := Identity(mode, name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE identity = ?`, identity)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document result: %w", err)
	}
	if affected == 0 {
		common.Logger().Warn("catalog: delete of absent document", "identity", identity)
		return false, nil
	}
	return true, nil
}

// ListDocuments returns all records for one mode, order not significant.
func (s *Store) ListDocuments(ctx context.Context, mode profile.Mode) ([]Document, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var docs []Document
	err := s.db.SelectContext(ctx, &docs,
		`SELECT identity, name, mode, description, content, created_at, updated_at
                 FROM documents WHERE mode = ?`, string(mode))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// AllDocuments returns every record regardless of mode.
func (s *Store) AllDocuments(ctx context.Context) ([]Document, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var docs []Document
	err := s.db.SelectContext(ctx, &docs,
		`SELECT identity, name, mode, description, content, created_at, updated_at
                 FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("list all documents: %w", err)
	}
	return docs, nil
}

// DocumentAttributes carries the administrative update path: only non-nil
// fields are written.
type DocumentAttributes struct {
	Description *string
	Content     *string
}

// UpdateDocument rewrites selected attributes of an existing record. This is
// the only mutation path besides re-ingestion.
func (s *Store) UpdateDocument(ctx context.Context, mode profile.Mode, name string, attrs DocumentAttributes) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if attrs.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *attrs.Description)
	}
	if attrs.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *attrs.Content)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, Identity(mode, name))
	query := fmt.Sprintf("UPDATE documents SET %s WHERE identity = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
