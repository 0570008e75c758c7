package coach

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/okian/focusfork/pkg/logger"
)

// Option applies a configuration option to the Coach.
type Option func(*Coach)

// WithTimeout bounds the generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Coach) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *Coach) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// WithTracerProvider sets the provider used for plan spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coach) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coach) {
		if l != nil {
			c.logger = l
		}
	}
}
