package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/surface"
)

type renameRequest struct {
	Name string `json:"name"`
}

type contenderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type criterionRequest struct {
	Name   string   `json:"name"`
	Weight *float64 `json:"weight"`
}

type appraisalRequest struct {
	ContenderID string   `json:"contender_id"`
	CriterionID string   `json:"criterion_id"`
	Score       *float64 `json:"score"`
}

type weightRequest struct {
	Weight *float64 `json:"weight"`
}

// List handles GET /api/v1/deliberations, optionally filtered by ?q=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		writeJSON(w, http.StatusOK, h.svc.Search(q))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.List())
}

// Create handles POST /api/v1/deliberations. The body is a draft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var draft decision.Draft
	if !decode(w, r, &draft) {
		return
	}
	d, err := h.svc.Compose(r.Context(), draft)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// Clear handles DELETE /api/v1/deliberations.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	h.respond(w, r)(h.svc.Rename(r.Context(), chi.URLParam(r, "id"), name))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddContender(w http.ResponseWriter, r *http.Request) {
	var req contenderRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	h.respond(w, r)(h.svc.AddContender(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Name), req.Description))
}

func (h *Handler) RemoveContender(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.RemoveContender(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cid")))
}

// AddCriterion handles POST .../criteria. A missing weight defaults to 1.
func (h *Handler) AddCriterion(w http.ResponseWriter, r *http.Request) {
	var req criterionRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	h.respond(w, r)(h.svc.AddCriterion(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Name), weight))
}

func (h *Handler) RemoveCriterion(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.RemoveCriterion(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "kid")))
}

func (h *Handler) Appraise(w http.ResponseWriter, r *http.Request) {
	var req appraisalRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ContenderID == "" || req.CriterionID == "" || req.Score == nil {
		writeError(w, http.StatusBadRequest, "contender_id, criterion_id and score are required")
		return
	}
	h.respond(w, r)(h.svc.Appraise(r.Context(), chi.URLParam(r, "id"), req.ContenderID, req.CriterionID, *req.Score))
}

func (h *Handler) Weigh(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Weight == nil {
		writeError(w, http.StatusBadRequest, "weight is required")
		return
	}
	h.respond(w, r)(h.svc.Weigh(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "kid"), *req.Weight))
}

func (h *Handler) Equalize(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.EqualizeWeights(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.NormalizeWeights(r.Context(), chi.URLParam(r, "id")))
}

// Ranking handles GET .../ranking. Standings are computed on every request.
func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Ranking())
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Share handles GET .../share and returns the plain-text summary.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(surface.ShareText(report)))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Templates())
}

// FromTemplate handles POST /api/v1/templates/{key}.
func (h *Handler) FromTemplate(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.FromTemplate(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// respond writes the updated deliberation or maps the error.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(decision.Deliberation, error) {
	return func(d decision.Deliberation, err error) {
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
