// Package httpapi exposes the question-answering pipeline over a small
// JSON HTTP API.
//
// Endpoints:
//
//   - POST /ask       — answer a question as a persona
//   - GET  /personas  — list available personas
//   - GET  /documents — list ingested documents
//   - GET  /healthz   — liveness check
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/sagesearch/internal/logger"
)

// Server handles HTTP requests against the core services.
type Server struct {
	answers  driving.AnswerService
	personas driven.PersonaStore
	docs     driven.DocumentStore
}

// NewServer creates a server over the given services. docs may be nil
// when no ingestion ledger is configured; /documents then returns an
// empty list.
func NewServer(answers driving.AnswerService, personas driven.PersonaStore, docs driven.DocumentStore) *Server {
	return &Server{
		answers:  answers,
		personas: personas,
		docs:     docs,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/personas", s.handlePersonas)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type askRequest struct {
	Persona  string `json:"personaId"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer  string               `json:"answer"`
	Context []domain.ContextItem `json:"context"`
	Sources []string             `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.Persona == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "personaId and question are required"})
		return
	}

	answer, err := s.answers.Answer(r.Context(), req.Persona, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:  answer.Text,
		Context: answer.Context,
		Sources: answer.Sources,
	})
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	summaries, err := s.personas.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if s.docs == nil {
		writeJSON(w, http.StatusOK, []domain.IngestedDocument{})
		return
	}

	docs, err := s.docs.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.IngestedDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"time_utc": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps domain errors to HTTP status codes. Provider
// failures surface as 502 so callers can distinguish them from bad
// requests.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmbedding),
		errors.Is(err, domain.ErrGeneration),
		errors.Is(err, domain.ErrIndex):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logger.Warn("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
