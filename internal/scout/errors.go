package scout

import "errors"

// Sentinel errors for the scout.
var (
	ErrInvalidQuery = errors.New("invalid scout query")
	ErrInvalidURL   = errors.New("invalid issue url")
	ErrUnknownMode  = errors.New("unknown direct issue mode")
)
