// Package scout finds the best open issue for a language and skill level.
package scout

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/scoring"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/metrics"
)

// DefaultPoolSize is the number of candidates scored per scout.
const DefaultPoolSize = 20

// Scout builds the query, fetches one pool of candidates and picks the
// highest scoring one. It holds no state between calls.
type Scout struct {
	searcher github.Searcher
	now      Clock
	poolSize int
	logger   logger.Logger
}

// New creates a Scout over searcher.
func New(searcher github.Searcher, opts ...Option) *Scout {
	s := &Scout{
		searcher: searcher,
		now:      time.Now,
		poolSize: DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scout")
	}
	return s
}

// Scout returns the best candidate for q, or nil when the search found
// nothing. Search failures are returned, never treated as empty.
func (s *Scout) Scout(ctx context.Context, q issue.Query) (*issue.SelectionResult, error) {
	ranked, err := s.Rank(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		metrics.RecordScout("empty")
		s.logger.Info(ctx, "no candidates found",
			logger.String("language", q.Language), logger.String("skill", string(q.SkillLevel)))
		return nil, nil
	}

	best := ranked[0]
	metrics.RecordScout("selected")
	metrics.RecordSelectedScore(best.Score)
	s.logger.Info(ctx, "issue selected",
		logger.String("url", best.Issue.HTMLURL),
		logger.Int("score", best.Score),
		logger.Int("candidates", len(ranked)),
	)
	return &issue.SelectionResult{Issue: best.Issue, Score: best.Score, Reasons: best.Reasons}, nil
}

// Rank returns the whole scored pool for q, best first.
func (s *Scout) Rank(ctx context.Context, q issue.Query) ([]issue.ScoredCandidate, error) {
	query, err := BuildQuery(q)
	if err != nil {
		return nil, err
	}

	candidates, err := s.searcher.Search(ctx, query, s.poolSize)
	if err != nil {
		metrics.RecordScout("error")
		return nil, fmt.Errorf("scout %s/%s: %w", q.Language, q.SkillLevel, err)
	}
	metrics.RecordCandidatesScored(len(candidates))
	return scoring.Rank(candidates, s.now()), nil
}
