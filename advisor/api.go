package advisor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/kit"
)

// Router returns the HTTP surface of the service.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/ask", s.handleAsk)
	r.Get("/stats", s.handleStats)
	r.Get("/healthz", s.handleHealthz)
	return r
}

type askRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Service) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query is required")
		return
	}

	ctx := r.Context()
	if req.SessionID != "" {
		ctx = kit.WithSessionID(ctx, req.SessionID)
	}

	resp, err := s.Ask(ctx, req.Query)
	switch {
	case errors.Is(err, ErrNoData):
		writeError(w, http.StatusNotFound, "no_data",
			"no matching regulation data was found; try rephrasing or adding a region")
	case errors.Is(err, ErrSynthesisUnavailable):
		writeError(w, http.StatusBadGateway, "model_unavailable",
			"the answer model is currently unavailable; please retry")
	case err != nil:
		s.logger.Error("advisor: unhandled ask error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Stats(r.Context())
	if err != nil {
		s.logger.Error("advisor: stats query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}
