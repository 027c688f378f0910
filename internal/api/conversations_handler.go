// File path: internal/api/conversations_handler.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/docschat/docschat/internal/catalog"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	document := strings.TrimSpace(r.URL.Query().Get("document"))
	if document == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document query parameter required"))
		return
	}
	threads, err := s.app.Catalog.ConversationsForDocument(r.Context(), catalog.CanonicalName(document))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]conversationResponse, 0, len(threads))
	for _, thread := range threads {
		out = append(out, conversationResponse{
			Namespace: thread.Namespace,
			Title:     thread.Title,
			Document:  thread.DocumentName,
			Turns:     thread.Turns,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": out})
}

func (s *Server) handleReplayConversation(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	rows, err := s.app.Catalog.Messages(r.Context(), namespace)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	turns := make([]turnResponse, 0, len(rows))
	title := ""
	for _, row := range rows {
		turns = append(turns, turnResponse{
			Sequence: row.SequenceNumber,
			Human:    row.HumanMessage,
			AI:       row.AIMessage,
		})
		title = row.Title
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"namespace": namespace,
		"title":     title,
		"turns":     turns,
	})
}
