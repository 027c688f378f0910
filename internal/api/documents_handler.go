// File path: internal/api/documents_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/profile"
)

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("path required"))
		return
	}
	prof, err := s.selectProfile(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name, err := s.app.Pipeline.Ingest(r.Context(), prof, req.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("ingestion failed"))
		return
	}
	logger.Info("api: document ingested", "document", name, "mode", prof.Mode)
	writeJSON(w, http.StatusCreated, ingestResponse{Document: name})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		docs []catalog.Document
		err  error
	)
	if rawMode := strings.TrimSpace(r.URL.Query().Get("mode")); rawMode != "" {
		mode, parseErr := profile.ParseMode(rawMode)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, parseErr)
			return
		}
		docs, err = s.app.Catalog.ListDocuments(ctx, mode)
	} else {
		docs, err = s.app.Catalog.AllDocuments(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse{
			Identity:    doc.Identity,
			Name:        doc.Name,
			Mode:        doc.Mode,
			Description: doc.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": out})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	prof, err := s.selectProfile(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.app.Pipeline.Remove(r.Context(), prof, name); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := profile.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	attrs := catalog.DocumentAttributes{Description: req.Description, Content: req.Content}
	if err := s.app.Catalog.UpdateDocument(r.Context(), mode, name, attrs); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) selectProfile(rawMode string) (profile.Profile, error) {
	mode, err := profile.ParseMode(rawMode)
	if err != nil {
		return profile.Profile{}, err
	}
	return s.app.Selector.Select(mode)
}
