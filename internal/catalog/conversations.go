// File path: internal/catalog/conversations.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/docschat/docschat/internal/common"
)

// appendRetries bounds the optimistic retry loop closing the race between
// two writers that observe the same current maximum sequence number.
const appendRetries = 3

// AppendMessage writes one immutable conversation turn and returns the
// server-assigned sequence number: one greater than the namespace's current
// maximum, zero for the first turn. The insert selects the next sequence in
// the same statement and the UNIQUE(namespace, sequence_number) index
// rejects duplicates, so a conflicting concurrent append fails the statement
// and is retried rather than corrupting replay order.
func (s *Store) AppendMessage(ctx context.Context, namespace, humanMessage, aiMessage, documentName, title string) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(namespace) == "" {
		return 0, fmt.Errorf("namespace required")
	}
	logger := common.Logger()
	var lastErr error
	for attempt := 0; attempt < appendRetries; attempt++ {
		var seq int
		err := s.db.GetContext(ctx, &seq,
			`INSERT INTO conversations (namespace, sequence_number, human_message, ai_message, document_name, title)
                         SELECT ?, COALESCE(MAX(sequence_number) + 1, 0), ?, ?, ?, ?
                         FROM conversations WHERE namespace = ?
                         RETURNING sequence_number`,
			namespace, humanMessage, aiMessage, documentName, title, namespace)
		if err == nil {
			return seq, nil
		}
		lastErr = err
		if !isUniqueViolation(err) {
			return 0, fmt.Errorf("append message: %w", err)
		}
		logger.Debug("catalog: sequence conflict, retrying append", "namespace", namespace, "attempt", attempt+1)
	}
	return 0, fmt.Errorf("append message: retries exhausted: %w", lastErr)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Messages replays every turn for a namespace in ascending sequence order.
func (s *Store) Messages(ctx context.Context, namespace string) ([]Message, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var rows []Message
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, namespace, sequence_number, human_message, ai_message, document_name, title, created_at
                 FROM conversations WHERE namespace = ?
                 ORDER BY sequence_number ASC`, namespace)
	if err != nil {
		return nil, fmt.Errorf("replay messages: %w", err)
	}
	return rows, nil
}

// ConversationsForDocument discovers the threads attached to one document.
// Order is not significant; the title of the latest turn wins.
func (s *Store) ConversationsForDocument(ctx context.Context, documentName string) ([]Conversation, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var rows []Conversation
	err := s.db.SelectContext(ctx, &rows,
		`SELECT c.namespace AS namespace,
                        c.document_name AS document_name,
                        (SELECT title FROM conversations
                         WHERE namespace = c.namespace
                         ORDER BY sequence_number DESC LIMIT 1) AS title,
                        COUNT(*) AS turns
                 FROM conversations c
                 WHERE c.document_name = ?
                 GROUP BY c.namespace`, documentName)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return rows, nil
}
