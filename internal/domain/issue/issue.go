// Package issue contains the issue records passed between the scout layers.
package issue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Label is a single issue label. The search API returns objects while some
// callers send bare strings, so both shapes decode into a Label.
type Label struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either {"name": "..."} or "...".
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode label: %w", err)
	}
	l.Name = obj.Name
	return nil
}

// CandidateIssue is an issue returned by the search API. It is read-only
// once constructed.
type CandidateIssue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	Body          *string   `json:"body"`
	HTMLURL       string    `json:"html_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CommentCount  int       `json:"comments"`
	Labels        []Label   `json:"labels"`
	RepositoryURL string    `json:"repository_url"`
}

// BodyText returns the body or "" when the issue has none.
func (c CandidateIssue) BodyText() string {
	if c.Body == nil {
		return ""
	}
	return *c.Body
}

// LabelNames returns label names in their original order.
func (c CandidateIssue) LabelNames() []string {
	names := make([]string, 0, len(c.Labels))
	for _, l := range c.Labels {
		names = append(names, l.Name)
	}
	return names
}

// HasLabel reports whether the issue carries name, ignoring case.
func (c CandidateIssue) HasLabel(name string) bool {
	for _, l := range c.Labels {
		if strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

// Repo returns "owner/name" taken from the last two segments of RepositoryURL.
func (c CandidateIssue) Repo() string {
	parts := strings.Split(strings.TrimRight(c.RepositoryURL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// SkillLevel selects the label filter used when scouting.
type SkillLevel string

// Supported skill levels.
const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillExpert       SkillLevel = "expert"
)

// ErrInvalidSkillLevel is returned by ParseSkillLevel for unknown values.
var ErrInvalidSkillLevel = errors.New("invalid skill level")

// ParseSkillLevel converts s into a SkillLevel, ignoring case and surrounding space.
func ParseSkillLevel(s string) (SkillLevel, error) {
	switch lvl := SkillLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case SkillBeginner, SkillIntermediate, SkillExpert:
		return lvl, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSkillLevel, s)
	}
}

// Query describes what the developer is looking for.
type Query struct {
	Language   string     `json:"language"`
	SkillLevel SkillLevel `json:"skill_level"`
}

// ScoredCandidate is a candidate with its heuristic score. Reasons are kept
// in the order the heuristics were evaluated.
type ScoredCandidate struct {
	Issue   CandidateIssue `json:"issue"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}

// SelectionResult is the winning candidate of a scouting pass.
type SelectionResult struct {
	Issue   CandidateIssue `json:"issue"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}
