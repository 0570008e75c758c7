package api

import (
	"errors"
	"net/http"

	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
)

// chatRequest mirrors the OpenAPI schema for POST /chat.
type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// ChatHandler forwards conversations to the chat assistant.
type ChatHandler struct {
	deps Dependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps Dependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

// HandleChat handles POST /chat requests.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !h.deps.ChatEnabled() {
		writeError(w, http.StatusServiceUnavailable, "unavailable", errors.New(msgChatDisabled))
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	reply, err := h.deps.Chat(r.Context(), req.Messages)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, reply)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrChatDisabled):
		writeServiceError(w, op, err)
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", errors.New(msgChatFailed))
	}
}
