package client

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrRequest        = errors.New("request failed")
	ErrDecode         = errors.New("decode response failed")
)

// APIError is a non-2xx response decoded from the server's {code, message}
// error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Code, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
