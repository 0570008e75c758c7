package scout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/okian/focusfork/internal/domain/issue"
)

const baseQuery = "is:issue is:open no:assignee"

// BuildQuery renders the search query for q. Only beginner and intermediate
// add a label filter.
func BuildQuery(q issue.Query) (string, error) {
	lang := strings.TrimSpace(q.Language)
	if lang == "" {
		return "", fmt.Errorf("%w: language is required", ErrInvalidQuery)
	}
	if strings.ContainsFunc(lang, func(r rune) bool { return unicode.IsSpace(r) || r == '"' }) {
		return "", fmt.Errorf("%w: language %q", ErrInvalidQuery, lang)
	}

	var b strings.Builder
	b.WriteString(baseQuery)
	b.WriteString(" language:")
	b.WriteString(lang)
	b.WriteString(" sort:updated-desc")

	switch q.SkillLevel {
	case issue.SkillBeginner:
		b.WriteString(` label:"good first issue"`)
	case issue.SkillIntermediate:
		b.WriteString(` label:"help wanted"`)
	case issue.SkillExpert:
	default:
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidQuery, issue.ErrInvalidSkillLevel, q.SkillLevel)
	}
	return b.String(), nil
}
