package scout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeSearcher struct {
	items    []issue.CandidateIssue
	err      error
	calls    int
	gotQuery string
	gotLimit int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]issue.CandidateIssue, error) {
	f.calls++
	f.gotQuery, f.gotLimit = query, limit
	return f.items, f.err
}

func body(n int) *string {
	s := strings.Repeat("x", n)
	return &s
}

func TestBuildQuery(t *testing.T) {
	Convey("Given a scout query", t, func() {
		cases := []struct {
			skill issue.SkillLevel
			want  string
		}{
			{issue.SkillBeginner, `is:issue is:open no:assignee language:go sort:updated-desc label:"good first issue"`},
			{issue.SkillIntermediate, `is:issue is:open no:assignee language:go sort:updated-desc label:"help wanted"`},
			{issue.SkillExpert, `is:issue is:open no:assignee language:go sort:updated-desc`},
		}
		for _, tc := range cases {
			got, err := BuildQuery(issue.Query{Language: "go", SkillLevel: tc.skill})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}

		Convey("Expert never filters by label", func() {
			got, _ := BuildQuery(issue.Query{Language: "rust", SkillLevel: issue.SkillExpert})
			So(got, ShouldNotContainSubstring, "label:")
		})

		Convey("Bad input is rejected", func() {
			for _, q := range []issue.Query{
				{Language: "", SkillLevel: issue.SkillBeginner},
				{Language: "go lang", SkillLevel: issue.SkillBeginner},
				{Language: `go"`, SkillLevel: issue.SkillBeginner},
				{Language: "go", SkillLevel: "guru"},
			} {
				_, err := BuildQuery(q)
				So(errors.Is(err, ErrInvalidQuery), ShouldBeTrue)
			}
			_, err := BuildQuery(issue.Query{Language: "go", SkillLevel: "guru"})
			So(errors.Is(err, issue.ErrInvalidSkillLevel), ShouldBeTrue)
		})
	})
}

func TestScout(t *testing.T) {
	Convey("Given a scout over a fake search", t, func() {
		ctx := context.Background()
		searcher := &fakeSearcher{}
		s := New(searcher, WithClock(func() time.Time { return now }))
		q := issue.Query{Language: "typescript", SkillLevel: issue.SkillBeginner}

		Convey("When candidates are found", func() {
			searcher.items = []issue.CandidateIssue{
				{ID: 1, Body: body(50), UpdatedAt: now.Add(-240 * time.Hour)},
				{ID: 2, Body: body(600), UpdatedAt: now.Add(-time.Hour), CommentCount: 2,
					Labels: []issue.Label{{Name: "good first issue"}, {Name: "bug"}}},
				{ID: 3, Body: body(600), UpdatedAt: now.Add(-time.Hour), CommentCount: 2,
					Labels: []issue.Label{{Name: "good first issue"}, {Name: "bug"}}},
			}
			got, err := s.Scout(ctx, q)

			Convey("Then the first top scorer wins", func() {
				So(err, ShouldBeNil)
				So(got, ShouldNotBeNil)
				So(got.Issue.ID, ShouldEqual, int64(2))
				So(got.Score, ShouldEqual, 28)
				So(got.Reasons, ShouldResemble, []string{
					"Detailed description (+10)",
					"Recently active (+5)",
					"Has discussion (+5)",
					"Beginner friendly (+5)",
					"Is a bug fix (+3)",
				})
			})

			Convey("Then exactly one search of 20 is made", func() {
				So(searcher.calls, ShouldEqual, 1)
				So(searcher.gotLimit, ShouldEqual, DefaultPoolSize)
				So(searcher.gotQuery, ShouldContainSubstring, "language:typescript")
			})
		})

		Convey("When the search is empty", func() {
			got, err := s.Scout(ctx, q)

			Convey("Then there is no selection and no error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeNil)
			})
		})

		Convey("When the search fails", func() {
			searcher.err = &github.SearchError{Query: "q", Err: errors.New("rate limited")}
			got, err := s.Scout(ctx, q)

			Convey("Then the failure propagates", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, github.ErrSearchFailed), ShouldBeTrue)
			})
		})

		Convey("When the query is invalid", func() {
			_, err := s.Scout(ctx, issue.Query{Language: "go"})

			Convey("Then no search is made", func() {
				So(errors.Is(err, ErrInvalidQuery), ShouldBeTrue)
				So(searcher.calls, ShouldEqual, 0)
			})
		})

		Convey("When ranking the whole pool", func() {
			searcher.items = []issue.CandidateIssue{{ID: 1, Body: body(10)}, {ID: 2, Body: body(200)}}
			ranked, err := s.Rank(ctx, q)

			Convey("Then every candidate is returned best first", func() {
				So(err, ShouldBeNil)
				So(ranked, ShouldHaveLength, 2)
				So(ranked[0].Issue.ID, ShouldEqual, int64(2))
				So(ranked[1].Score, ShouldEqual, -10)
			})
		})
	})
}
