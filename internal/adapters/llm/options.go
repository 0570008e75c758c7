package llm

import (
	"net/http"

	"github.com/okian/focusfork/pkg/logger"
)

const defaultMaxOutputTokens = 2048

type options struct {
	baseURL         string
	httpClient      *http.Client
	maxOutputTokens int64
	logger          logger.Logger
}

func defaultOptions() *options {
	return &options{maxOutputTokens: defaultMaxOutputTokens}
}

// Option configures a generator.
type Option func(*options)

// WithBaseURL points the provider client at a proxy or test server.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithHTTPClient sets the transport used by the provider SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithMaxOutputTokens caps the generated output.
func WithMaxOutputTokens(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOutputTokens = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
