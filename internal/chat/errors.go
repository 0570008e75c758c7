package chat

import "errors"

// Sentinel errors for the chat assistant.
var (
	ErrNoMessages    = errors.New("chat needs at least one message")
	ErrInvalidRole   = errors.New("invalid chat role")
	ErrModelFailure  = errors.New("chat model call failed")
	ErrEmptyResponse = errors.New("chat model returned no content")
)
