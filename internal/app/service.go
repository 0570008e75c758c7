// Package service provides the application service behind the HTTP API:
// starting focus sessions, scouting, planning, public search and chat.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/coach"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/internal/scout"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/metrics"
)

// Defaults applied to session requests.
const (
	DefaultLanguage   = "typescript"
	DefaultSkillLevel = issue.SkillBeginner
	PublicSearchLimit = 10
	sourceScouted     = "scouted"
	sourceDirect      = "direct"
)

// Scouter selects the best issue for a query.
type Scouter interface {
	Scout(ctx context.Context, q issue.Query) (*issue.SelectionResult, error)
}

// Planner synthesizes a focus plan.
type Planner interface {
	Synthesize(ctx context.Context, in coach.IssueSummary) plan.Outcome
}

// Chatter answers a chat conversation.
type Chatter interface {
	Reply(ctx context.Context, history []chat.Message) (chat.Reply, error)
}

// SessionRequest starts a focus session. When IssueURL is set the issue is
// resolved directly and Language/SkillLevel are ignored.
type SessionRequest struct {
	Language   string `json:"language"`
	SkillLevel string `json:"skill_level"`
	IssueURL   string `json:"issue_url"`
}

// Session is a selected issue with its plan.
type Session struct {
	ID        uuid.UUID            `json:"id"`
	Source    string               `json:"source"`
	Issue     issue.CandidateIssue `json:"issue"`
	Score     int                  `json:"score"`
	Reasons   []string             `json:"reasons"`
	Plan      plan.FocusPlan       `json:"plan"`
	CreatedAt time.Time            `json:"created_at"`

	// PlanSource is kept server side for logging and metrics.
	PlanSource plan.Source `json:"-"`
}

// Service wires the scout, resolver, planner and chat together. It holds no
// per-request state.
type Service struct {
	scout    Scouter
	resolver scout.IssueResolver
	planner  Planner
	searcher github.Searcher
	chat     Chatter

	defaultLanguage string
	defaultSkill    issue.SkillLevel
	newID           func() uuid.UUID
	now             func() time.Time

	logger logger.Logger
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		defaultLanguage: DefaultLanguage,
		defaultSkill:    DefaultSkillLevel,
		newID:           uuid.New,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// StartSession selects an issue (scouted or direct) and plans it.
func (s *Service) StartSession(ctx context.Context, req SessionRequest) (Session, error) {
	if s.planner == nil {
		return Session{}, fmt.Errorf("%w: planner", ErrNotConfigured)
	}

	sess := Session{ID: s.newID(), CreatedAt: s.now()}
	if url := strings.TrimSpace(req.IssueURL); url != "" {
		if s.resolver == nil {
			return Session{}, fmt.Errorf("%w: resolver", ErrNotConfigured)
		}
		it, err := s.resolver.Resolve(ctx, url)
		if err != nil {
			if isInputError(err) {
				return Session{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return Session{}, fmt.Errorf("resolve %s: %w", url, err)
		}
		sess.Source = sourceDirect
		sess.Issue = it
		sess.Reasons = []string{}
	} else {
		q, err := s.query(req.Language, req.SkillLevel)
		if err != nil {
			return Session{}, err
		}
		sel, err := s.ScoutOnly(ctx, q)
		if err != nil {
			return Session{}, err
		}
		if sel == nil {
			return Session{}, ErrNoIssues
		}
		sess.Source = sourceScouted
		sess.Issue, sess.Score, sess.Reasons = sel.Issue, sel.Score, sel.Reasons
	}

	out := s.planner.Synthesize(ctx, coach.IssueSummary{
		Title: sess.Issue.Title,
		Body:  sess.Issue.BodyText(),
		URL:   sess.Issue.HTMLURL,
	})
	sess.Plan, sess.PlanSource = out.Plan, out.Source

	metrics.RecordSessionStarted(sess.Source)
	s.logger.Info(ctx, "focus session started",
		logger.String("session", sess.ID.String()),
		logger.String("source", sess.Source),
		logger.String("issue", sess.Issue.HTMLURL),
		logger.String("plan", string(sess.PlanSource)),
	)
	return sess, nil
}

// ScoutOnly runs the scout without planning. A nil result means no match.
func (s *Service) ScoutOnly(ctx context.Context, q issue.Query) (*issue.SelectionResult, error) {
	if s.scout == nil {
		return nil, fmt.Errorf("%w: scout", ErrNotConfigured)
	}
	sel, err := s.scout.Scout(ctx, q)
	if err != nil {
		if isInputError(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}
	return sel, nil
}

// Plan synthesizes a plan for caller supplied issue text. It never fails.
func (s *Service) Plan(ctx context.Context, in coach.IssueSummary) plan.Outcome {
	if s.planner == nil {
		return plan.FromFallback(fmt.Errorf("%w: planner", ErrNotConfigured))
	}
	return s.planner.Synthesize(ctx, in)
}

// SearchPublic runs an unscored search capped at PublicSearchLimit. An empty
// query returns an empty list without calling GitHub.
func (s *Service) SearchPublic(ctx context.Context, query string) ([]issue.CandidateIssue, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []issue.CandidateIssue{}, nil
	}
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: searcher", ErrNotConfigured)
	}
	return s.searcher.Search(ctx, query, PublicSearchLimit)
}

// Chat forwards a conversation to the chat assistant.
func (s *Service) Chat(ctx context.Context, history []chat.Message) (chat.Reply, error) {
	if s.chat == nil {
		return chat.Reply{}, ErrChatDisabled
	}
	reply, err := s.chat.Reply(ctx, history)
	if err != nil && isInputError(err) {
		return chat.Reply{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return reply, err
}

// Query normalizes language and skill level, applying the defaults.
func (s *Service) Query(language, skillLevel string) (issue.Query, error) {
	return s.query(language, skillLevel)
}

func (s *Service) query(language, skillLevel string) (issue.Query, error) {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = s.defaultLanguage
	}
	level := s.defaultSkill
	if strings.TrimSpace(skillLevel) != "" {
		parsed, err := issue.ParseSkillLevel(skillLevel)
		if err != nil {
			return issue.Query{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		level = parsed
	}
	return issue.Query{Language: lang, SkillLevel: level}, nil
}

// ChatEnabled reports whether a chat assistant is configured.
func (s *Service) ChatEnabled() bool { return s.chat != nil }

func isInputError(err error) bool {
	for _, target := range []error{
		scout.ErrInvalidQuery, scout.ErrInvalidURL, issue.ErrInvalidSkillLevel,
		github.ErrInvalidURL, chat.ErrNoMessages, chat.ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
