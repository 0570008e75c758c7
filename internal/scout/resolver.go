package scout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/domain/issue"
)

// Direct issue modes.
const (
	ModeFetch       = "fetch"
	ModePlaceholder = "placeholder"
)

// Placeholder content used when the direct issue is not fetched.
const (
	PlaceholderTitle = "Selected from Dashboard"
	PlaceholderBody  = "User selected this issue directly."
)

// IssueResolver turns a directly selected issue URL into a candidate.
type IssueResolver interface {
	Resolve(ctx context.Context, issueURL string) (issue.CandidateIssue, error)
}

// NewResolver returns the resolver for mode.
func NewResolver(mode string, getter github.IssueGetter, clock Clock) (IssueResolver, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeFetch:
		if getter == nil {
			return nil, fmt.Errorf("%w: fetch mode needs an issue getter", ErrUnknownMode)
		}
		return FetchResolver{Getter: getter}, nil
	case ModePlaceholder:
		return PlaceholderResolver{Now: clock}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// FetchResolver loads the real issue metadata.
type FetchResolver struct {
	Getter github.IssueGetter
}

// Resolve parses issueURL and fetches the issue.
func (r FetchResolver) Resolve(ctx context.Context, issueURL string) (issue.CandidateIssue, error) {
	ref, err := github.ParseIssueURL(issueURL)
	if err != nil {
		return issue.CandidateIssue{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return r.Getter.GetIssue(ctx, ref.Owner, ref.Repo, ref.Number)
}

// PlaceholderResolver builds a stand-in issue from the URL alone without any
// network call. The number is taken from the last path segment.
type PlaceholderResolver struct {
	Now Clock
}

// Resolve builds the placeholder issue.
func (r PlaceholderResolver) Resolve(_ context.Context, issueURL string) (issue.CandidateIssue, error) {
	raw := strings.TrimSpace(issueURL)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return issue.CandidateIssue{}, fmt.Errorf("%w: %q", ErrInvalidURL, issueURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	number, _ := strconv.Atoi(segments[len(segments)-1])

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	ts := now()
	body := PlaceholderBody

	var repoURL string
	if len(segments) >= 2 {
		repoURL = "https://api.github.com/repos/" + segments[0] + "/" + segments[1]
	}
	return issue.CandidateIssue{
		ID:            ts.UnixMilli(),
		Number:        number,
		Title:         PlaceholderTitle,
		Body:          &body,
		HTMLURL:       raw,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		Labels:        []issue.Label{},
		RepositoryURL: repoURL,
	}, nil
}
