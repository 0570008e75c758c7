package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/scout"
	"github.com/okian/focusfork/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScout sets the issue scout.
func WithScout(s Scouter) Option {
	return func(svc *Service) {
		svc.scout = s
	}
}

// WithResolver sets the strategy for directly selected issues.
func WithResolver(r scout.IssueResolver) Option {
	return func(svc *Service) {
		svc.resolver = r
	}
}

// WithPlanner sets the plan synthesizer.
func WithPlanner(p Planner) Option {
	return func(svc *Service) {
		svc.planner = p
	}
}

// WithSearcher sets the searcher used for public search.
func WithSearcher(s github.Searcher) Option {
	return func(svc *Service) {
		svc.searcher = s
	}
}

// WithChat enables the conversational scout.
func WithChat(c Chatter) Option {
	return func(svc *Service) {
		svc.chat = c
	}
}

// WithDefaultLanguage sets the language used when a request has none.
func WithDefaultLanguage(lang string) Option {
	return func(svc *Service) {
		if lang != "" {
			svc.defaultLanguage = lang
		}
	}
}

// WithDefaultSkillLevel sets the skill level used when a request has none.
func WithDefaultSkillLevel(level issue.SkillLevel) Option {
	return func(svc *Service) {
		if level != "" {
			svc.defaultSkill = level
		}
	}
}

// WithIDGenerator replaces the session id source.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(svc *Service) {
		if fn != nil {
			svc.newID = fn
		}
	}
}

// WithClock sets the time source for session timestamps.
func WithClock(fn func() time.Time) Option {
	return func(svc *Service) {
		if fn != nil {
			svc.now = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}
