// Package plan defines the focus plan produced for a selected issue.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Bounds enforced on every plan, generated or not.
const (
	MinSuccessCriteria = 3
	MaxSuccessCriteria = 5
	MinMinutes         = 30
	MaxMinutes         = 120
)

// FallbackMarker prefixes the summary of the static plan so clients can tell
// it apart from a generated one.
const FallbackMarker = "FALLBACK PLAN"

// ErrInvalidPlan is returned when a plan violates the schema bounds.
var ErrInvalidPlan = errors.New("invalid focus plan")

// FocusPlan is a short, non-technical plan for tackling one issue.
type FocusPlan struct {
	Summary              string   `json:"summary"`
	SuccessCriteria      []string `json:"success_criteria"`
	StepByStepPlan       []string `json:"step_by_step_plan"`
	EstimatedTimeMinutes int      `json:"estimated_time_minutes"`
}

// Validate checks p against the schema bounds.
func (p FocusPlan) Validate() error {
	switch {
	case strings.TrimSpace(p.Summary) == "":
		return fmt.Errorf("%w: empty summary", ErrInvalidPlan)
	case len(p.SuccessCriteria) < MinSuccessCriteria || len(p.SuccessCriteria) > MaxSuccessCriteria:
		return fmt.Errorf("%w: %d success criteria, want %d-%d", ErrInvalidPlan,
			len(p.SuccessCriteria), MinSuccessCriteria, MaxSuccessCriteria)
	case len(p.StepByStepPlan) == 0:
		return fmt.Errorf("%w: no steps", ErrInvalidPlan)
	case p.EstimatedTimeMinutes < MinMinutes || p.EstimatedTimeMinutes > MaxMinutes:
		return fmt.Errorf("%w: estimate %d minutes outside %d-%d", ErrInvalidPlan,
			p.EstimatedTimeMinutes, MinMinutes, MaxMinutes)
	}
	for _, group := range [][]string{p.SuccessCriteria, p.StepByStepPlan} {
		for _, s := range group {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: blank list item", ErrInvalidPlan)
			}
		}
	}
	return nil
}

// Decode parses raw model output into a validated plan. Surrounding markdown
// code fences are tolerated.
func Decode(raw []byte) (FocusPlan, error) {
	var p FocusPlan
	if err := json.Unmarshal([]byte(StripFences(string(raw))), &p); err != nil {
		return FocusPlan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := p.Validate(); err != nil {
		return FocusPlan{}, err
	}
	return p, nil
}

// StripFences removes a leading ```json / ``` fence and its closing fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Fallback returns the static plan used when generation is unavailable.
// Every call returns a fresh copy with identical content.
func Fallback() FocusPlan {
	return FocusPlan{
		Summary: "⚠️ " + FallbackMarker + ": live plan generation is unavailable right now. " +
			"This is a generic default plan, not guidance written for this issue.",
		SuccessCriteria: []string{
			"The reported problem is understood and can be described in your own words",
			"The change addresses the issue without breaking existing behaviour",
			"The work is ready to share with the maintainers for review",
		},
		StepByStepPlan: []string{
			"Read the issue description and any linked discussion",
			"Set up the project locally",
			"Reproduce the reported behaviour",
			"Make the change",
			"Run the tests and verify the result",
		},
		EstimatedTimeMinutes: 45,
	}
}

// IsFallback reports whether p carries the fallback marker.
func IsFallback(p FocusPlan) bool {
	return strings.Contains(p.Summary, FallbackMarker)
}

// Source tells which branch of plan synthesis produced a plan.
type Source string

// Plan sources.
const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Outcome is the two-branch result of plan synthesis. Err carries the reason
// a fallback was chosen and is nil for model plans.
type Outcome struct {
	Plan   FocusPlan
	Source Source
	Err    error
}

// FromModel wraps a validated generated plan.
func FromModel(p FocusPlan) Outcome {
	return Outcome{Plan: p, Source: SourceModel}
}

// FromFallback wraps the static plan together with the failure that caused it.
func FromFallback(cause error) Outcome {
	return Outcome{Plan: Fallback(), Source: SourceFallback, Err: cause}
}

// IsFallback reports whether the outcome took the fallback branch.
func (o Outcome) IsFallback() bool { return o.Source == SourceFallback }
