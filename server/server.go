// Package server exposes the session engine over HTTP for the browser client:
// the four user intents, session inspection, article preview, and credential
// storage.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"counterfactual_press/bundle"
	"counterfactual_press/credstore"
	"counterfactual_press/generator"
	"counterfactual_press/session"
)

// Credential store key under which the user's API key is saved.
const credentialKey = "api_key"

// maxBundleSize caps import uploads.
const maxBundleSize = 8 << 20

type Server struct {
	ctrl  *session.Controller
	creds *credstore.Store
	log   *slog.Logger
}

// New builds the HTTP surface around a session controller.
func New(ctrl *session.Controller, creds *credstore.Store, log *slog.Logger) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("session controller required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{ctrl: ctrl, creds: creds, log: log}, nil
}

// Routes returns the chi router with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSessionGet)
		r.Post("/timeline", s.handleTimelineCreate)
		r.Put("/active-entry", s.handleActiveEntry)
		r.Post("/entries/{id}/article", s.handleArticleCreate)
		r.Get("/entries/{id}/article/preview", s.handleArticlePreview)
		r.Post("/entries/{id}/interpolate", s.handleInterpolate)
		r.Get("/bundle", s.handleExport)
		r.Post("/bundle", s.handleImport)
		r.Get("/credential", s.handleCredentialGet)
		r.Put("/credential", s.handleCredentialSet)
	})

	return r
}

// --- Handlers ---

type timelineCreateReq struct {
	SeedEvent string `json:"seed_event"`
}

type activeEntryReq struct {
	ID string `json:"id"`
}

type credentialReq struct {
	Value string `json:"value"`
}

func (s *Server) handleSessionGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse(s.ctrl.Snapshot()))
}

func (s *Server) handleTimelineCreate(w http.ResponseWriter, r *http.Request) {
	var req timelineCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := s.ctrl.GenerateTimeline(r.Context(), req.SeedEvent); err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s.ctrl.Snapshot()))
}

func (s *Server) handleActiveEntry(w http.ResponseWriter, r *http.Request) {
	var req activeEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := s.ctrl.SetActiveEntry(req.ID); err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s.ctrl.Snapshot()))
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ctrl.RequestArticle(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		// Generation failure is recorded on the entry; report the entry state
		// so the client can render the failed status and offer retry.
	}
	writeJSON(w, http.StatusOK, s.ctrl.ArticleState(id))
}

func (s *Server) handleArticlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state := s.ctrl.ArticleState(id)
	if state.Article == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no completed article for entry "+id))
		return
	}
	html, err := renderArticleHTML(*state.Article)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) handleInterpolate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ctrl.Interpolate(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		// Recorded per anchor; return the session so the client sees the
		// failed interpolation status in place.
	}
	writeJSON(w, http.StatusOK, sessionResponse(s.ctrl.Snapshot()))
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.ctrl.Export()
	if err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return
	}
	data, err := bundle.Marshal(doc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timeline-bundle.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBundleSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := s.ctrl.Import(data); err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s.ctrl.Snapshot()))
}

func (s *Server) handleCredentialGet(w http.ResponseWriter, _ *http.Request) {
	configured := s.creds != nil && s.creds.Get(credentialKey, "") != ""
	writeJSON(w, http.StatusOK, map[string]bool{"configured": configured})
}

func (s *Server) handleCredentialSet(w http.ResponseWriter, r *http.Request) {
	var req credentialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if s.creds != nil {
		s.creds.Set(credentialKey, req.Value)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": req.Value != ""})
}

// --- Helpers ---

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrValidation), errors.Is(err, session.ErrImport):
		return http.StatusBadRequest
	case generator.IsSchemaError(err):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
