package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/focusfork/internal/adapters/github"
	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/coach"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/internal/scout"
	"github.com/okian/focusfork/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type fakeScout struct {
	result *issue.SelectionResult
	err    error
	got    issue.Query
	calls  int
}

func (f *fakeScout) Scout(_ context.Context, q issue.Query) (*issue.SelectionResult, error) {
	f.calls++
	f.got = q
	return f.result, f.err
}

type fakePlanner struct {
	got   coach.IssueSummary
	calls int
}

func (f *fakePlanner) Synthesize(_ context.Context, in coach.IssueSummary) plan.Outcome {
	f.calls++
	f.got = in
	return plan.FromFallback(errors.New("no model"))
}

type fakeSearcher struct {
	calls    int
	gotLimit int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, limit int) ([]issue.CandidateIssue, error) {
	f.calls++
	f.gotLimit = limit
	return []issue.CandidateIssue{{ID: 1}}, nil
}

type fakeChat struct{ err error }

func (f fakeChat) Reply(context.Context, []chat.Message) (chat.Reply, error) {
	return chat.Reply{Text: "hi"}, f.err
}

func strPtr(s string) *string { return &s }

var fixedID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func TestService_StartSession(t *testing.T) {
	Convey("Given a service with fake collaborators", t, func() {
		ctx := context.Background()
		sc := &fakeScout{result: &issue.SelectionResult{
			Issue:   issue.CandidateIssue{Title: "Fix it", Body: strPtr("details"), HTMLURL: "https://github.com/a/b/issues/1"},
			Score:   13,
			Reasons: []string{"Has discussion (+5)"},
		}}
		pl := &fakePlanner{}
		svc := service.New(
			service.WithScout(sc),
			service.WithPlanner(pl),
			service.WithResolver(scout.PlaceholderResolver{Now: func() time.Time { return time.Unix(0, 0) }}),
			service.WithIDGenerator(func() uuid.UUID { return fixedID }),
		)

		Convey("When the request is empty", func() {
			sess, err := svc.StartSession(ctx, service.SessionRequest{})

			Convey("Then the defaults are used and the winner is planned", func() {
				So(err, ShouldBeNil)
				So(sc.got, ShouldResemble, issue.Query{Language: "typescript", SkillLevel: issue.SkillBeginner})
				So(sess.ID, ShouldEqual, fixedID)
				So(sess.Source, ShouldEqual, "scouted")
				So(sess.Score, ShouldEqual, 13)
				So(sess.Reasons, ShouldResemble, []string{"Has discussion (+5)"})
				So(pl.got, ShouldResemble, coach.IssueSummary{Title: "Fix it", Body: "details", URL: "https://github.com/a/b/issues/1"})
				So(plan.IsFallback(sess.Plan), ShouldBeTrue)
				So(sess.PlanSource, ShouldEqual, plan.SourceFallback)
			})
		})

		Convey("When the skill level is given in another case", func() {
			_, err := svc.StartSession(ctx, service.SessionRequest{Language: "go", SkillLevel: "Expert"})
			So(err, ShouldBeNil)
			So(sc.got, ShouldResemble, issue.Query{Language: "go", SkillLevel: issue.SkillExpert})
		})

		Convey("When the skill level is unknown", func() {
			_, err := svc.StartSession(ctx, service.SessionRequest{SkillLevel: "wizard"})

			Convey("Then the input is rejected before scouting", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				So(sc.calls, ShouldEqual, 0)
			})
		})

		Convey("When nothing is found", func() {
			sc.result = nil
			_, err := svc.StartSession(ctx, service.SessionRequest{})

			Convey("Then ErrNoIssues is returned and no plan is made", func() {
				So(errors.Is(err, service.ErrNoIssues), ShouldBeTrue)
				So(pl.calls, ShouldEqual, 0)
			})
		})

		Convey("When the search fails", func() {
			sc.err = &github.SearchError{Query: "q", Err: errors.New("down")}
			_, err := svc.StartSession(ctx, service.SessionRequest{})

			Convey("Then the failure propagates", func() {
				So(errors.Is(err, github.ErrSearchFailed), ShouldBeTrue)
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeFalse)
			})
		})

		Convey("When an issue URL is given", func() {
			sess, err := svc.StartSession(ctx, service.SessionRequest{IssueURL: "https://github.com/acme/widgets/issues/42"})

			Convey("Then the resolver is used instead of the scout", func() {
				So(err, ShouldBeNil)
				So(sc.calls, ShouldEqual, 0)
				So(sess.Source, ShouldEqual, "direct")
				So(sess.Issue.Number, ShouldEqual, 42)
				So(pl.got.Title, ShouldEqual, scout.PlaceholderTitle)
				So(pl.got.Body, ShouldEqual, scout.PlaceholderBody)
			})
		})

		Convey("When the issue URL is malformed", func() {
			_, err := svc.StartSession(ctx, service.SessionRequest{IssueURL: "nope"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestService_SearchPublic(t *testing.T) {
	Convey("Given a service with a searcher", t, func() {
		ctx := context.Background()
		searcher := &fakeSearcher{}
		svc := service.New(service.WithSearcher(searcher))

		Convey("An empty query returns an empty list without searching", func() {
			got, err := svc.SearchPublic(ctx, "   ")
			So(err, ShouldBeNil)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
			So(searcher.calls, ShouldEqual, 0)
		})

		Convey("A query is searched with the public limit", func() {
			got, err := svc.SearchPublic(ctx, "is:issue")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(searcher.gotLimit, ShouldEqual, service.PublicSearchLimit)
		})
	})
}

func TestService_PlanAndChat(t *testing.T) {
	Convey("Given a service without planner or chat", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("Plan still returns a valid fallback", func() {
			out := svc.Plan(ctx, coach.IssueSummary{Title: "x"})
			So(out.IsFallback(), ShouldBeTrue)
			So(out.Plan.Validate(), ShouldBeNil)
		})

		Convey("Chat reports that it is disabled", func() {
			So(svc.ChatEnabled(), ShouldBeFalse)
			_, err := svc.Chat(ctx, []chat.Message{{Role: chat.RoleUser, Content: "hi"}})
			So(errors.Is(err, service.ErrChatDisabled), ShouldBeTrue)
		})

		Convey("Scouting reports the missing dependency", func() {
			_, err := svc.ScoutOnly(ctx, issue.Query{Language: "go", SkillLevel: issue.SkillExpert})
			So(errors.Is(err, service.ErrNotConfigured), ShouldBeTrue)
		})
	})

	Convey("Given a service with chat", t, func() {
		svc := service.New(service.WithChat(fakeChat{err: chat.ErrNoMessages}))

		Convey("Chat input errors are classified", func() {
			So(svc.ChatEnabled(), ShouldBeTrue)
			_, err := svc.Chat(context.Background(), nil)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

type namedFakePlanner struct{ fakePlanner }

func (namedFakePlanner) Generator() string { return "gemini:test" }

func TestService_GetStats(t *testing.T) {
	Convey("Given services with and without a named planner", t, func() {
		bare := service.New(service.WithDefaultLanguage("go"))
		named := service.New(service.WithPlanner(&namedFakePlanner{}), service.WithChat(fakeChat{}))

		Convey("Then stats report configuration and runtime figures", func() {
			stats := bare.GetStats()
			So(stats["defaultLanguage"], ShouldEqual, "go")
			So(stats["defaultSkillLevel"], ShouldEqual, "beginner")
			So(stats["planner"], ShouldEqual, "none")
			So(stats["chatEnabled"], ShouldBeFalse)
			So(stats["goroutines"], ShouldBeGreaterThan, 0)

			stats = named.GetStats()
			So(stats["planner"], ShouldEqual, "gemini:test")
			So(stats["chatEnabled"], ShouldBeTrue)
		})
	})
}
