// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"expvar"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/docschat/docschat/internal/app"
	"github.com/docschat/docschat/internal/common"
)

// Server exposes the document and conversation API over HTTP.
type Server struct {
	router chi.Router
	app    *app.App
}

func NewServer(application *app.App) (*Server, error) {
	logger := common.Logger()
	srv := &Server{router: chi.NewRouter(), app: application}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Method(http.MethodGet, "/debug/vars", expvar.Handler())

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/documents", s.handleIngestDocument)
		r.Get("/documents", s.handleListDocuments)
		r.Delete("/documents/{name}", s.handleDeleteDocument)
		r.Patch("/documents/{name}", s.handleUpdateDocument)
		r.Post("/chat", s.handleChat)
		r.Get("/conversations", s.handleListConversations)
		r.Get("/conversations/{namespace}", s.handleReplayConversation)
		r.Get("/logs", s.handleLogs)
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
