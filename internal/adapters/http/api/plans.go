package api

import (
	"net/http"

	"github.com/okian/focusfork/internal/coach"
)

// planRequest mirrors the OpenAPI schema for POST /plans.
type planRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// PlansHandler synthesizes plans for caller supplied issues.
type PlansHandler struct {
	deps Dependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps Dependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// HandlePlan handles POST /plans requests. Generation failures degrade to the
// fallback plan, so any well-formed request gets a 200.
func (h *PlansHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.plan"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req planRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	out := h.deps.Plan(r.Context(), coach.IssueSummary{Title: req.Title, Body: req.Body, URL: req.URL})
	writeJSON(w, http.StatusOK, out.Plan)
}
