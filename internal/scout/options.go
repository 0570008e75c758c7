package scout

import (
	"time"

	"github.com/okian/focusfork/pkg/logger"
)

// Clock returns the current time.
type Clock func() time.Time

// Option applies a configuration option to the Scout.
type Option func(*Scout)

// WithClock injects the time source used for ranking.
func WithClock(c Clock) Option {
	return func(s *Scout) {
		if c != nil {
			s.now = c
		}
	}
}

// WithPoolSize overrides the number of candidates fetched per scout.
func WithPoolSize(n int) Option {
	return func(s *Scout) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scout) {
		if l != nil {
			s.logger = l
		}
	}
}
