package api

import (
	"errors"
	"net/http"

	"github.com/okian/focusfork/internal/adapters/github"
	service "github.com/okian/focusfork/internal/app"
)

// Client-facing messages for failures that should not leak upstream detail.
const (
	msgNoIssues      = "No suitable issues found. Try again later."
	msgSearchFailed  = "Failed to scout issues."
	msgResolveFailed = "Failed to load the requested issue."
	msgChatDisabled  = "Chat is disabled on this server."
	msgChatFailed    = "The assistant could not answer right now."
)

// SessionsHandler handles focus session requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleStartSession handles POST /sessions requests.
func (h *SessionsHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req service.SessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sess, err := h.deps.StartSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// writeServiceError maps service and gateway errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNoIssues):
		writeError(w, http.StatusNotFound, "not_found", errors.New(msgNoIssues))
	case errors.Is(err, github.ErrSearchFailed):
		writeError(w, http.StatusBadGateway, "upstream_error", errors.New(msgSearchFailed))
	case errors.Is(err, github.ErrIssueFetch):
		writeError(w, http.StatusBadGateway, "upstream_error", errors.New(msgResolveFailed))
	case errors.Is(err, service.ErrChatDisabled):
		writeError(w, http.StatusServiceUnavailable, "unavailable", errors.New(msgChatDisabled))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
