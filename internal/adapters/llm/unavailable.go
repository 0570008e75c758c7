package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Unavailable is the generator used when no provider is configured. Every
// call fails, so every plan takes the fallback branch.
type Unavailable struct {
	Reason error
}

// Name returns "unavailable".
func (Unavailable) Name() string { return "unavailable" }

// Generate always fails with ErrUnavailable.
func (u Unavailable) Generate(context.Context, Request) (json.RawMessage, error) {
	if u.Reason != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, u.Reason)
	}
	return nil, ErrUnavailable
}
