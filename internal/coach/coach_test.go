package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/okian/focusfork/internal/adapters/llm"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeGen struct {
	fn    func(ctx context.Context, req llm.Request) (json.RawMessage, error)
	calls int
	last  llm.Request
}

func (f *fakeGen) Name() string { return "fake" }

func (f *fakeGen) Generate(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	f.calls++
	f.last = req
	return f.fn(ctx, req)
}

func returning(s string) *fakeGen {
	return &fakeGen{fn: func(context.Context, llm.Request) (json.RawMessage, error) {
		return json.RawMessage(s), nil
	}}
}

const validPlan = `{
  "summary": "Fix the crash. Add a guard.",
  "success_criteria": ["No crash", "Tests pass", "Reviewed"],
  "step_by_step_plan": ["Reproduce", "Fix", "Verify"],
  "estimated_time_minutes": 60
}`

var issue = IssueSummary{Title: "Crash on empty input", Body: "It panics.", URL: "https://github.com/a/b/issues/1"}

type panicProvider struct{ noop.TracerProvider }

func (panicProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return panicTracer{} }

type panicTracer struct{ noop.Tracer }

func (panicTracer) Start(context.Context, string, ...trace.SpanStartOption) (context.Context, trace.Span) {
	panic("tracer down")
}

func TestSynthesize(t *testing.T) {
	Convey("Given a coach", t, func() {
		ctx := context.Background()

		Convey("When the generator returns a valid plan", func() {
			gen := returning(validPlan)
			out := New(gen).Synthesize(ctx, issue)

			Convey("Then the model plan is returned", func() {
				So(out.Source, ShouldEqual, plan.SourceModel)
				So(out.Err, ShouldBeNil)
				So(out.Plan.EstimatedTimeMinutes, ShouldEqual, 60)
				So(plan.IsFallback(out.Plan), ShouldBeFalse)
				So(gen.calls, ShouldEqual, 1)
			})

			Convey("Then the request carries the prompt, schema and temperature", func() {
				So(gen.last.Prompt, ShouldContainSubstring, "ISSUE TITLE: Crash on empty input")
				So(gen.last.Prompt, ShouldContainSubstring, "ISSUE CONTEXT: It panics.")
				So(gen.last.Prompt, ShouldContainSubstring, "Do NOT generate code")
				So(gen.last.System, ShouldContainSubstring, "Focus Coach")
				So(gen.last.Schema.Required, ShouldHaveLength, 4)
				So(gen.last.Temperature, ShouldAlmostEqual, 0.2, 0.0001)
			})
		})

		Convey("When the generator fails", func() {
			gen := &fakeGen{fn: func(context.Context, llm.Request) (json.RawMessage, error) {
				return nil, errors.New("429 quota")
			}}
			out := New(gen).Synthesize(ctx, issue)

			Convey("Then the fallback plan is returned with the cause", func() {
				So(out.IsFallback(), ShouldBeTrue)
				So(out.Plan, ShouldResemble, plan.Fallback())
				So(out.Err.Error(), ShouldContainSubstring, "429")
				So(gen.calls, ShouldEqual, 1)
			})
		})

		Convey("When the generator returns an out-of-range plan", func() {
			out := New(returning(strings.Replace(validPlan, "60", "500", 1))).Synthesize(ctx, issue)

			Convey("Then validation fails over to the fallback", func() {
				So(out.IsFallback(), ShouldBeTrue)
				So(errors.Is(out.Err, plan.ErrInvalidPlan), ShouldBeTrue)
				So(out.Plan.Validate(), ShouldBeNil)
			})
		})

		Convey("When the generator returns malformed JSON", func() {
			out := New(returning(`{"summary": `)).Synthesize(ctx, issue)
			So(out.IsFallback(), ShouldBeTrue)
		})

		Convey("When the generator panics", func() {
			gen := &fakeGen{fn: func(context.Context, llm.Request) (json.RawMessage, error) {
				panic("boom")
			}}
			var out plan.Outcome
			So(func() { out = New(gen).Synthesize(ctx, issue) }, ShouldNotPanic)

			Convey("Then the panic becomes a fallback", func() {
				So(out.IsFallback(), ShouldBeTrue)
				So(errors.Is(out.Err, ErrGeneratorPanic), ShouldBeTrue)
			})
		})

		Convey("When the generator ignores the deadline", func() {
			release := make(chan struct{})
			defer close(release)
			gen := &fakeGen{fn: func(context.Context, llm.Request) (json.RawMessage, error) {
				<-release
				return json.RawMessage(validPlan), nil
			}}
			start := time.Now()
			out := New(gen, WithTimeout(20*time.Millisecond)).Synthesize(ctx, issue)

			Convey("Then synthesis returns the fallback on time", func() {
				So(time.Since(start) < 2*time.Second, ShouldBeTrue)
				So(errors.Is(out.Err, ErrTimeout), ShouldBeTrue)
			})
		})

		Convey("When the caller cancels", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			gen := &fakeGen{fn: func(c context.Context, _ llm.Request) (json.RawMessage, error) {
				<-c.Done()
				return nil, c.Err()
			}}
			out := New(gen).Synthesize(cctx, issue)

			Convey("Then the fallback is returned", func() {
				So(out.IsFallback(), ShouldBeTrue)
				So(errors.Is(out.Err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When no generator is configured", func() {
			out := New(nil).Synthesize(ctx, issue)
			So(errors.Is(out.Err, llm.ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestSynthesizeTracing(t *testing.T) {
	Convey("Given a coach with a recording tracer", t, func() {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

		Convey("When a plan is generated", func() {
			New(returning(validPlan), WithTracerProvider(tp)).Synthesize(context.Background(), issue)

			Convey("Then one span with the issue and source is recorded", func() {
				spans := sr.Ended()
				So(spans, ShouldHaveLength, 1)
				So(spans[0].Name(), ShouldEqual, "focus_coach.plan")
				attrs := map[string]string{}
				for _, kv := range spans[0].Attributes() {
					attrs[string(kv.Key)] = kv.Value.Emit()
				}
				So(attrs["issue.title"], ShouldEqual, issue.Title)
				So(attrs["issue.url"], ShouldEqual, issue.URL)
				So(attrs["plan.source"], ShouldEqual, "model")
			})
		})

		Convey("When the plan falls back", func() {
			New(llm.Unavailable{}, WithTracerProvider(tp)).Synthesize(context.Background(), issue)

			Convey("Then the span is marked as an error", func() {
				spans := sr.Ended()
				So(spans, ShouldHaveLength, 1)
				So(spans[0].Status().Code, ShouldEqual, codes.Error)
			})
		})
	})

	Convey("Given a tracer that panics", t, func() {
		c := New(returning(validPlan), WithTracerProvider(panicProvider{}))

		Convey("Then synthesis is unaffected", func() {
			var out plan.Outcome
			So(func() { out = c.Synthesize(context.Background(), issue) }, ShouldNotPanic)
			So(out.Source, ShouldEqual, plan.SourceModel)
		})
	})
}

func TestPlanSchema(t *testing.T) {
	Convey("PlanSchema mirrors the plan bounds", t, func() {
		s := PlanSchema()
		So(*s.Properties["success_criteria"].MinItems, ShouldEqual, int64(plan.MinSuccessCriteria))
		So(*s.Properties["success_criteria"].MaxItems, ShouldEqual, int64(plan.MaxSuccessCriteria))
		So(*s.Properties["estimated_time_minutes"].Minimum, ShouldEqual, float64(plan.MinMinutes))
		So(*s.Properties["estimated_time_minutes"].Maximum, ShouldEqual, float64(plan.MaxMinutes))
	})

	Convey("BuildPrompt tolerates an empty body", t, func() {
		So(BuildPrompt(IssueSummary{Title: "t"}), ShouldContainSubstring, "(no description provided)")
	})
}
