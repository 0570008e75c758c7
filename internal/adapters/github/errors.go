package github

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrSearchFailed  = errors.New("issue search failed")
	ErrIssueFetch    = errors.New("issue fetch failed")
	ErrInvalidLimit  = errors.New("invalid search limit")
	ErrInvalidURL    = errors.New("invalid issue url")
	ErrInvalidConfig = errors.New("invalid github gateway config")
)

// SearchError reports a failed call to the search endpoint. Callers treat it
// as "no results available now".
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

// Unwrap exposes the underlying transport or API error.
func (e *SearchError) Unwrap() error { return e.Err }

// Is matches ErrSearchFailed.
func (e *SearchError) Is(target error) bool { return target == ErrSearchFailed }
