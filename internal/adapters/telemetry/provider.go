package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/kiln/internal/core/ports"
)

// InstrumentationName names the tracer spans are created with.
const InstrumentationName = "go.trai.ch/kiln"

// Tracer implements ports.Tracer. Every span it starts is reported to its
// renderer, and span output is forwarded line by line.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewTracer creates a Tracer backed by its own TracerProvider, so nothing is
// installed globally. The renderer may be nil.
func NewTracer(renderer ports.Renderer) *Tracer {
	opts := []sdktrace.TracerProviderOption{}
	if renderer != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(NewBridge(renderer)))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	return &Tracer{
		provider: tp,
		tracer:   tp.Tracer(InstrumentationName),
		renderer: renderer,
	}
}

// NewNoOpTracer returns a Tracer that records nothing.
func NewNoOpTracer() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}
}

// WithSpanProcessor registers an extra processor, e.g. a span recorder in tests.
func (t *Tracer) WithSpanProcessor(sp sdktrace.SpanProcessor) *Tracer {
	if t.provider != nil {
		t.provider.RegisterSpanProcessor(sp)
	}
	return t
}

// Shutdown flushes and stops the underlying provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Start creates a new span.
func (t *Tracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Kind != "" {
		startOpts = append(startOpts, trace.WithAttributes(attribute.String("kiln.kind", cfg.Kind)))
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)

	s := &Span{span: span}
	if t.renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		s.batcher = NewLineBatcher(0, 0, func(data []byte) {
			t.renderer.OnTaskLog(spanID, data)
		})
	}
	return ctx, s
}

// EmitPlan records the plan on the current span and announces it to the renderer.
func (t *Tracer) EmitPlan(ctx context.Context, names []string, target string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("tasks", names),
			attribute.String("target", target),
		))
	}
	if t.renderer != nil {
		t.renderer.OnPlanEmit(names, target)
	}
}

// Span implements ports.Span on top of an OpenTelemetry span.
type Span struct {
	span    trace.Span
	batcher *LineBatcher
}

// End flushes buffered output and completes the span.
func (s *Span) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError marks the span as failed.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *Span) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprint(v)))
	}
}

// Write forwards output to the renderer, or records it as a span event when
// there is no renderer.
func (s *Span) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
