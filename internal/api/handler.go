// Package api implements the deliberate REST API used by UI clients.
// Every handler reads and writes through the catalog service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/deliberate/deliberate/internal/archive"
	"github.com/deliberate/deliberate/internal/catalog"
	"github.com/deliberate/deliberate/pkg/decision"
)

// Handler serves the deliberation endpoints.
type Handler struct {
	svc    *catalog.Service
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *catalog.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps service errors to status codes. Archive failures are
// reported as 503 so clients know a retry may succeed.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var archiveErr *archive.Error
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, decision.ErrContenderNotFound),
		errors.Is(err, decision.ErrCriterionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, decision.ErrPolicy), errors.Is(err, catalog.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &archiveErr):
		h.logger.Error("archive unavailable", "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "archive unavailable, retry later")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
