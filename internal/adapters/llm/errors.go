package llm

import "errors"

// Sentinel errors returned by generators and the factory.
var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrMissingAPIKey   = errors.New("llm api key is not configured")
	ErrEmptyResponse   = errors.New("empty model response")
	ErrUnavailable     = errors.New("plan generation unavailable")
)
