// Package telemetry wires the OpenTelemetry tracer provider used for plan
// synthesis spans.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Supported exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned for an exporter name Setup does not know.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

type options struct {
	exporter    string
	serviceName string
	out         io.Writer
}

// Option configures Setup.
type Option func(*options)

// WithExporter selects "none" or "stdout".
func WithExporter(name string) Option {
	return func(o *options) {
		o.exporter = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.serviceName = name
		}
	}
}

// WithWriter redirects the stdout exporter.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// Setup builds a tracer provider, installs it globally and returns it. With
// the "none" exporter a no-op provider is installed.
func Setup(opts ...Option) (trace.TracerProvider, ShutdownFunc, error) {
	o := &options{exporter: ExporterNone, serviceName: "focusfork", out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	switch o.exporter {
	case "", ExporterNone:
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(o.out))
		if err != nil {
			return nil, nil, fmt.Errorf("stdout exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", o.serviceName),
			)),
		)
		otel.SetTracerProvider(tp)
		return tp, tp.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownExporter, o.exporter)
	}
}
