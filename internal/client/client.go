// Package client is a typed HTTP client for the FocusFork API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/pkg/logger"
)

// maxErrorBody caps how much of an error body is read.
const maxErrorBody = 64 << 10

// Client talks to a running FocusFork server.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  logger.Logger
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{base: u, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("client")
	}
	return c, nil
}

// StartSession calls POST /sessions.
func (c *Client) StartSession(ctx context.Context, req service.SessionRequest) (service.Session, error) {
	var out service.Session
	err := c.do(ctx, http.MethodPost, "/sessions", nil, req, &out)
	return out, err
}

// Scout calls POST /scout. A 404 is reported as a nil result.
func (c *Client) Scout(ctx context.Context, language, skillLevel string) (*issue.SelectionResult, error) {
	var out issue.SelectionResult
	body := map[string]string{"language": language, "skill_level": skillLevel}
	if err := c.do(ctx, http.MethodPost, "/scout", nil, body, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// Plan calls POST /plans.
func (c *Client) Plan(ctx context.Context, title, body, issueURL string) (plan.FocusPlan, error) {
	var out plan.FocusPlan
	req := map[string]string{"title": title, "body": body, "url": issueURL}
	err := c.do(ctx, http.MethodPost, "/plans", nil, req, &out)
	return out, err
}

// Search calls GET /issues/search.
func (c *Client) Search(ctx context.Context, query string) ([]issue.CandidateIssue, error) {
	var out []issue.CandidateIssue
	err := c.do(ctx, http.MethodGet, "/issues/search", url.Values{"q": {query}}, nil, &out)
	return out, err
}

// Chat calls POST /chat.
func (c *Client) Chat(ctx context.Context, history []chat.Message) (chat.Reply, error) {
	var out chat.Reply
	err := c.do(ctx, http.MethodPost, "/chat", nil, map[string]any{"messages": history}, &out)
	return out, err
}

// Health calls GET /healthz and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, &out)
	return out.Status, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode body: %w", ErrRequest, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug(ctx, "api call",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Code, apiErr.Message = body.Code, body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
