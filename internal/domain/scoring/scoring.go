// Package scoring ranks candidate issues with fixed, explainable heuristics.
package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"time"
	"unicode/utf16"

	"github.com/okian/focusfork/internal/domain/issue"
)

// Heuristic thresholds and deltas.
const (
	detailedBodyMin  = 500
	shortBodyMax     = 100
	detailedBodyGain = 10
	shortBodyPenalty = -10

	recentWindow   = 3 * 24 * time.Hour
	recentGain     = 5
	discussionGain = 5

	beginnerLabel = "good first issue"
	beginnerGain  = 5
	bugLabel      = "bug"
	bugGain       = 3
)

// Result is the outcome of scoring a single issue.
type Result struct {
	Score   int
	Reasons []string
}

// heuristic inspects an issue and reports a delta and a label when it fires.
type heuristic func(in issue.CandidateIssue, now time.Time) (delta int, label string, fired bool)

// heuristics is evaluated in order; the order is part of the output contract.
var heuristics = []heuristic{
	descriptionLength,
	recency,
	engagement,
	labelMatch(beginnerLabel, beginnerGain, "Beginner friendly"),
	labelMatch(bugLabel, bugGain, "Is a bug fix"),
}

// Score evaluates every heuristic against in. now is the reference time for
// the recency check; Score never reads the system clock.
func Score(in issue.CandidateIssue, now time.Time) Result {
	res := Result{Reasons: make([]string, 0, len(heuristics))}
	for _, h := range heuristics {
		delta, label, fired := h(in, now)
		if !fired {
			continue
		}
		res.Score += delta
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s (%+d)", label, delta))
	}
	return res
}

// Rank scores all candidates and sorts them by descending score. The sort is
// stable so equal scores keep the order the search API returned.
func Rank(candidates []issue.CandidateIssue, now time.Time) []issue.ScoredCandidate {
	scored := make([]issue.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		r := Score(c, now)
		scored = append(scored, issue.ScoredCandidate{Issue: c, Score: r.Score, Reasons: r.Reasons})
	}
	slices.SortStableFunc(scored, func(a, b issue.ScoredCandidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored
}

// descriptionLength rewards detailed bodies and penalizes short or missing ones.
// Length is counted in UTF-16 code units, so characters outside the BMP
// count twice.
func descriptionLength(in issue.CandidateIssue, _ time.Time) (int, string, bool) {
	n := len(utf16.Encode([]rune(in.BodyText())))
	switch {
	case n > detailedBodyMin:
		return detailedBodyGain, "Detailed description", true
	case n < shortBodyMax:
		return shortBodyPenalty, "Short description", true
	default:
		return 0, "", false
	}
}

func recency(in issue.CandidateIssue, now time.Time) (int, string, bool) {
	if now.Sub(in.UpdatedAt) < recentWindow {
		return recentGain, "Recently active", true
	}
	return 0, "", false
}

func engagement(in issue.CandidateIssue, _ time.Time) (int, string, bool) {
	if in.CommentCount > 0 {
		return discussionGain, "Has discussion", true
	}
	return 0, "", false
}

func labelMatch(name string, gain int, label string) heuristic {
	return func(in issue.CandidateIssue, _ time.Time) (int, string, bool) {
		if in.HasLabel(name) {
			return gain, label, true
		}
		return 0, "", false
	}
}
