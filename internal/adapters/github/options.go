package github

import (
	"net/http"
	"time"

	"github.com/okian/focusfork/pkg/logger"
)

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithToken authenticates requests with a personal or app token. An empty
// token leaves the client unauthenticated, which is enough for public search.
func WithToken(token string) Option {
	return func(g *Gateway) {
		g.token = token
	}
}

// WithBaseURL points the gateway at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(g *Gateway) {
		g.baseURL = baseURL
	}
}

// WithHTTPClient sets the transport used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// WithTimeout bounds each outbound call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the gateway.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}
