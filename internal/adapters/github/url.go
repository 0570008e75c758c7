package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// IssueRef identifies an issue by repository and number.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// String formats the reference as owner/repo#number.
func (r IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParseIssueURL extracts the issue reference from an html url of the form
// https://github.com/{owner}/{repo}/issues/{number}. Query strings and
// fragments are ignored.
func ParseIssueURL(raw string) (IssueRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return IssueRef{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return IssueRef{}, fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidURL, raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "issues" || parts[0] == "" || parts[1] == "" {
		return IssueRef{}, fmt.Errorf("%w: expected /{owner}/{repo}/issues/{number} in %q", ErrInvalidURL, raw)
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil || n < 1 {
		return IssueRef{}, fmt.Errorf("%w: bad issue number in %q", ErrInvalidURL, raw)
	}
	return IssueRef{Owner: parts[0], Repo: parts[1], Number: n}, nil
}
