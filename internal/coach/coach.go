// Package coach turns a selected issue into a focus plan. Synthesis never
// fails: any generation problem yields the static fallback plan.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/focusfork/internal/adapters/llm"
	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	DefaultTimeout     = 25 * time.Second
	DefaultTemperature = float32(0.2)

	tracerName = "github.com/okian/focusfork/internal/coach"
	spanName   = "focus_coach.plan"
)

// IssueSummary is the issue text handed to the coach.
type IssueSummary struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Coach synthesizes focus plans with a single generator call.
type Coach struct {
	gen         llm.Generator
	timeout     time.Duration
	temperature float32
	tracer      trace.Tracer
	logger      logger.Logger
}

// New creates a Coach. A nil generator behaves like llm.Unavailable.
func New(gen llm.Generator, opts ...Option) *Coach {
	if gen == nil {
		gen = llm.Unavailable{}
	}
	c := &Coach{
		gen:         gen,
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("coach")
	}
	return c
}

// Generator names the configured generator.
func (c *Coach) Generator() string { return c.gen.Name() }

// Synthesize returns a plan for in. The outcome records whether the plan came
// from the model or the fallback, and why.
func (c *Coach) Synthesize(ctx context.Context, in IssueSummary) plan.Outcome {
	ctx, span := c.startSpan(ctx, in)

	out := c.synthesize(ctx, in)

	c.endSpan(span, out)
	metrics.RecordPlanOutcome(string(out.Source))
	if out.IsFallback() {
		c.logger.Warn(ctx, "plan generation failed, using fallback plan",
			logger.String("title", in.Title),
			logger.String("generator", c.gen.Name()),
			logger.Error(out.Err),
		)
	}
	return out
}

func (c *Coach) synthesize(ctx context.Context, in IssueSummary) plan.Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      BuildPrompt(in),
		Schema:      PlanSchema(),
		Temperature: c.temperature,
	}

	start := time.Now()
	raw, err := c.generate(ctx, req)
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordGeneration(c.gen.Name(), "error", latencyMs)
		return plan.FromFallback(err)
	}

	p, err := plan.Decode(raw)
	if err != nil {
		metrics.RecordGeneration(c.gen.Name(), "invalid", latencyMs)
		return plan.FromFallback(err)
	}
	metrics.RecordGeneration(c.gen.Name(), "ok", latencyMs)
	return plan.FromModel(p)
}

type result struct {
	raw json.RawMessage
	err error
}

// generate runs the generator in its own goroutine so a provider that ignores
// ctx cannot hold the caller past the deadline.
func (c *Coach) generate(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrGeneratorPanic, r)}
			}
		}()
		raw, err := c.gen.Generate(ctx, req)
		done <- result{raw: raw, err: err}
	}()

	select {
	case r := <-done:
		return r.raw, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, ctx.Err()
	}
}

// startSpan never lets a tracing failure reach the caller.
func (c *Coach) startSpan(ctx context.Context, in IssueSummary) (spanCtx context.Context, span trace.Span) {
	defer func() {
		if r := recover(); r != nil {
			spanCtx, span = ctx, trace.SpanFromContext(ctx)
		}
	}()
	return c.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("issue.title", in.Title),
		attribute.String("issue.url", in.URL),
		attribute.String("generator", c.gen.Name()),
	))
}

func (c *Coach) endSpan(span trace.Span, out plan.Outcome) {
	defer func() { _ = recover() }()
	span.SetAttributes(
		attribute.String("plan.source", string(out.Source)),
		attribute.Int("plan.estimated_time_minutes", out.Plan.EstimatedTimeMinutes),
	)
	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, "fallback plan")
	}
	span.End()
}
