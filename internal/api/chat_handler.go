// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/chat"
	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/common/telemetry"
)

// placeholderAnswer stands in for the model's reply when the generation
// backend fails. The turn is still recorded so the conversation stays
// linear; the real cause goes to the log.
const placeholderAnswer = "Something went wrong. Please try again."

const placeholderTitle = "New conversation"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("message required"))
		return
	}
	if strings.TrimSpace(req.Document) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document required"))
		return
	}
	prof, err := s.selectProfile(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	namespace := strings.TrimSpace(req.Namespace)
	if namespace == "" {
		namespace = uuid.NewString()
	}
	rows, err := s.app.Catalog.Messages(ctx, namespace)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// A namespace stays bound to the document it was minted for; feeding
	// its history into another document's chat is a caller error.
	if len(rows) > 0 && rows[0].DocumentName != catalog.CanonicalName(req.Document) {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("namespace %s belongs to document %s", namespace, rows[0].DocumentName))
		return
	}
	history := make([]chat.Turn, 0, len(rows))
	priorTitle := placeholderTitle
	for _, row := range rows {
		history = append(history, chat.Turn{Human: row.HumanMessage, AI: row.AIMessage})
		priorTitle = row.Title
	}

	generationStart := time.Now()
	answer, err := s.app.Engine.Answer(ctx, prof, req.Document, req.Message, history)
	failed := err != nil
	if err != nil {
		if errors.Is(err, chat.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		logger.Error("api: answer generation failed, substituting placeholder", "namespace", namespace, "error", err)
		answer = placeholderAnswer
	}
	telemetry.RecordChatTurn(string(prof.Mode), time.Since(generationStart), failed)

	title := priorTitle
	if len(history) == 0 {
		generated, titleErr := s.app.Engine.Title(ctx, prof, []chat.Turn{{Human: req.Message, AI: answer}})
		if titleErr != nil {
			logger.Warn("api: title generation failed, using placeholder", "namespace", namespace, "error", titleErr)
		} else if generated != "" {
			title = generated
		}
	}

	seq, err := s.app.Catalog.AppendMessage(ctx, namespace, req.Message, answer, catalog.CanonicalName(req.Document), title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: chat turn recorded", "namespace", namespace, "sequence", seq, "mode", prof.Mode)
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:    answer,
		Namespace: namespace,
		Title:     title,
		Sequence:  seq,
	})
}
