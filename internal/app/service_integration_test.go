package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/adapters/llm"
	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/coach"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/internal/scout"
)

var integrationSearch = `{"total_count":2,"items":[
 {"id":1,"number":10,"title":"Typo in README","body":"fix","html_url":"https://github.com/acme/app/issues/10",
  "repository_url":"https://api.github.com/repos/acme/app","updated_at":"2025-03-01T00:00:00Z","comments":0,"labels":[]},
 {"id":2,"number":11,"title":"Crash when saving","body":"` + longBody + `","html_url":"https://github.com/acme/app/issues/11",
  "repository_url":"https://api.github.com/repos/acme/app","updated_at":"2025-03-10T06:00:00Z","comments":3,
  "labels":[{"name":"Good First Issue"},{"name":"bug"}]}]}`

var longBody = strings.Repeat("Steps to reproduce the crash in detail. ", 15)

type staticGen struct{ raw string }

func (staticGen) Name() string { return "static" }

func (g staticGen) Generate(context.Context, llm.Request) (json.RawMessage, error) {
	return json.RawMessage(g.raw), nil
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service over a fake GitHub API", t, func() {
		var searches atomic.Int32
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/search/issues":
				searches.Add(1)
				w.WriteHeader(status)
				_, _ = w.Write([]byte(integrationSearch))
			case "/repos/acme/app/issues/11":
				_, _ = w.Write([]byte(`{"id":2,"number":11,"title":"Crash when saving","body":"short",
					"html_url":"https://github.com/acme/app/issues/11","repository_url":"https://api.github.com/repos/acme/app"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			}
		}))
		defer srv.Close()

		gw, err := github.New(github.WithBaseURL(srv.URL))
		So(err, ShouldBeNil)

		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		resolver, err := scout.NewResolver(scout.ModeFetch, gw, nil)
		So(err, ShouldBeNil)

		build := func(gen llm.Generator) *service.Service {
			return service.New(
				service.WithScout(scout.New(gw, scout.WithClock(func() time.Time { return now }))),
				service.WithResolver(resolver),
				service.WithPlanner(coach.New(gen)),
				service.WithSearcher(gw),
			)
		}

		Convey("When a session is started with a working model", func() {
			gen := staticGen{raw: `{"summary":"Find the crash. Fix it.","success_criteria":["a","b","c"],
				"step_by_step_plan":["reproduce","fix"],"estimated_time_minutes":90}`}
			sess, err := build(gen).StartSession(context.Background(), service.SessionRequest{Language: "go"})

			Convey("Then the best issue is selected with explainable reasons", func() {
				So(err, ShouldBeNil)
				So(searches.Load(), ShouldEqual, int32(1))
				So(sess.Issue.Number, ShouldEqual, 11)
				So(sess.Score, ShouldEqual, 28)
				So(sess.Reasons, ShouldHaveLength, 5)
				So(sess.PlanSource, ShouldEqual, plan.SourceModel)
				So(sess.Plan.EstimatedTimeMinutes, ShouldEqual, 90)
			})
		})

		Convey("When the model is unavailable", func() {
			sess, err := build(llm.Unavailable{}).StartSession(context.Background(), service.SessionRequest{})

			Convey("Then the session still completes with the fallback plan", func() {
				So(err, ShouldBeNil)
				So(sess.Plan, ShouldResemble, plan.Fallback())
			})
		})

		Convey("When GitHub fails", func() {
			status = http.StatusServiceUnavailable
			_, err := build(llm.Unavailable{}).StartSession(context.Background(), service.SessionRequest{})

			Convey("Then the session fails with a search error", func() {
				So(errors.Is(err, github.ErrSearchFailed), ShouldBeTrue)
			})
		})

		Convey("When a direct issue is fetched", func() {
			sess, err := build(llm.Unavailable{}).StartSession(context.Background(),
				service.SessionRequest{IssueURL: "https://github.com/acme/app/issues/11"})

			Convey("Then the real title is planned", func() {
				So(err, ShouldBeNil)
				So(searches.Load(), ShouldEqual, int32(0))
				So(sess.Issue.Title, ShouldEqual, "Crash when saving")
			})
		})

		Convey("When a direct issue does not exist", func() {
			_, err := build(llm.Unavailable{}).StartSession(context.Background(),
				service.SessionRequest{IssueURL: "https://github.com/acme/app/issues/99"})
			So(errors.Is(err, github.ErrIssueFetch), ShouldBeTrue)
		})
	})
}
