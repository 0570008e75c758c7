package api

import (
	"errors"
	"net/http"
)

// scoutRequest mirrors the OpenAPI schema for POST /scout.
type scoutRequest struct {
	Language   string `json:"language"`
	SkillLevel string `json:"skill_level"`
}

// ScoutHandler runs the scout without planning.
type ScoutHandler struct {
	deps Dependencies
}

// NewScoutHandler creates a new scout handler.
func NewScoutHandler(deps Dependencies) *ScoutHandler {
	return &ScoutHandler{deps: deps}
}

// HandleScout handles POST /scout requests.
func (h *ScoutHandler) HandleScout(w http.ResponseWriter, r *http.Request) {
	const op = "api.scout"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req scoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := h.deps.Query(req.Language, req.SkillLevel)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	sel, err := h.deps.ScoutOnly(r.Context(), q)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if sel == nil {
		writeError(w, http.StatusNotFound, "not_found", errors.New(msgNoIssues))
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
