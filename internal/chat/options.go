package chat

import (
	"github.com/okian/focusfork/pkg/logger"
)

// Option applies a configuration option to the Assistant.
type Option func(*Assistant)

// WithModel selects the Gemini model.
func WithModel(model string) Option {
	return func(a *Assistant) {
		if model != "" {
			a.model = model
		}
	}
}

// WithMaxToolRounds bounds how many rounds of tool calls one reply may use.
func WithMaxToolRounds(n int) Option {
	return func(a *Assistant) {
		if n >= 0 {
			a.maxRounds = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}
