// Package github adapts the GitHub REST API to the issue scout.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/metrics"
)

// Gateway limits and defaults.
const (
	MaxLimit       = 100 // GitHub caps per_page at 100
	defaultTimeout = 15 * time.Second
)

// Searcher runs an issue search and returns raw candidates.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]issue.CandidateIssue, error)
}

// IssueGetter fetches a single issue by coordinates.
type IssueGetter interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (issue.CandidateIssue, error)
}

// Gateway talks to the GitHub search and issues endpoints. Each Gateway owns
// its client; there is no process-wide client.
type Gateway struct {
	client     *gh.Client
	token      string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.Logger
}

// New builds a Gateway from explicit options.
func New(opts ...Option) (*Gateway, error) {
	g := &Gateway{
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.Get().Named("github")
	}

	client := gh.NewClient(g.httpClient)
	if g.token != "" {
		client = client.WithAuthToken(g.token)
	}
	if g.baseURL != "" {
		u, err := url.Parse(strings.TrimRight(g.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: base url: %v", ErrInvalidConfig, err)
		}
		client.BaseURL = u
	}
	g.client = client
	return g, nil
}

// Search runs one search call sorted by most recently updated. It does not
// retry; any failure is returned as a *SearchError.
func (g *Gateway) Search(ctx context.Context, query string, limit int) ([]issue.CandidateIssue, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, MaxLimit)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, _, err := g.client.Search.Issues(ctx, query, &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordSearch("error", latencyMs)
		g.logger.Warn(ctx, "issue search failed", logger.String("query", query), logger.Error(err))
		return nil, &SearchError{Query: query, Err: err}
	}
	metrics.RecordSearch("ok", latencyMs)

	out := make([]issue.CandidateIssue, 0, len(res.Issues))
	for _, it := range res.Issues {
		if it == nil {
			continue
		}
		out = append(out, toCandidate(it))
	}
	// The API may return more than requested when per_page is ignored upstream.
	if len(out) > limit {
		out = out[:limit]
	}
	g.logger.Debug(ctx, "issue search completed",
		logger.String("query", query),
		logger.Int("results", len(out)),
		logger.Float64("latencyMs", latencyMs),
	)
	return out, nil
}

// GetIssue fetches a single issue.
func (g *Gateway) GetIssue(ctx context.Context, owner, repo string, number int) (issue.CandidateIssue, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	it, _, err := g.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return issue.CandidateIssue{}, fmt.Errorf("%w: %s/%s#%d: %v", ErrIssueFetch, owner, repo, number, err)
	}
	return toCandidate(it), nil
}

func toCandidate(it *gh.Issue) issue.CandidateIssue {
	labels := make([]issue.Label, 0, len(it.Labels))
	for _, l := range it.Labels {
		labels = append(labels, issue.Label{Name: l.GetName()})
	}
	return issue.CandidateIssue{
		ID:            it.GetID(),
		Number:        it.GetNumber(),
		Title:         it.GetTitle(),
		Body:          it.Body,
		HTMLURL:       it.GetHTMLURL(),
		CreatedAt:     it.GetCreatedAt().Time,
		UpdatedAt:     it.GetUpdatedAt().Time,
		CommentCount:  it.GetComments(),
		Labels:        labels,
		RepositoryURL: it.GetRepositoryURL(),
	}
}
