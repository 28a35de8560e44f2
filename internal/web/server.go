// Package web exposes the deck over a small JSON API. It is a thin
// presentation surface: every handler delegates straight to the engine.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conorfennell/recall/internal/deck"
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/sanitize"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	deck   *deck.Deck
	log    *slog.Logger
	router chi.Router
}

// NewServer creates and configures a new server around a deck.
func NewServer(d *deck.Deck, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{deck: d, log: log, router: chi.NewRouter()}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleAddItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Post("/items/{id}/review", s.handleReview)

		r.Get("/due", s.handleDue)
		r.Get("/stats", s.handleStats)
		r.Get("/progress", s.handleProgress)
		r.Get("/streaks", s.handleStreaks)

		r.Post("/ingest", s.handleIngest)

		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleUpdateSettings)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

type addItemRequest struct {
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	Kind     string   `json:"kind"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
	Source   string   `json:"source"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := s.deck.Add(sanitize.ItemInput{
		Front:    req.Front,
		Back:     req.Back,
		Kind:     req.Kind,
		Language: req.Language,
		Tags:     req.Tags,
		Source:   req.Source,
	})
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respond(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.deck.Items())
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.deck.Delete(chi.URLParam(r, "id")); err != nil {
		s.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	Quality int `json:"quality"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := s.deck.Review(chi.URLParam(r, "id"), req.Quality)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respond(w, http.StatusOK, item)
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		s.respond(w, http.StatusOK, s.deck.Due(limit))
		return
	}
	s.respond(w, http.StatusOK, s.deck.Due())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.deck.Stats())
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.deck.Progress())
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.deck.Streaks())
}

type ingestRequest struct {
	Source     string             `json:"source"`
	Candidates []domain.Candidate `json:"candidates"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := domain.ParseSource(req.Source)
	if !s.deck.Settings().AutoCapture(source) {
		s.respondError(w, http.StatusConflict, "auto-capture is disabled for source "+string(source))
		return
	}
	s.respond(w, http.StatusOK, s.deck.Ingest(req.Candidates, source))
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.deck.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respond(w, http.StatusOK, s.deck.UpdateSettings(patch))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.deck.Export()
	if err != nil {
		s.log.Error("export failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="recall-snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("failed to write export response", "error", err)
	}
}

type importRequest struct {
	Mode    string          `json:"mode"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode := deck.ImportMode(req.Mode)
	if mode == "" {
		mode = deck.ImportMerge
	}

	report, err := s.deck.Import(req.Payload, mode)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respond(w, http.StatusOK, report)
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, errorResponse{Error: message})
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidQuality), errors.Is(err, domain.ErrEmptyContent):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
