package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rogersnm/smoothies/internal/model"
	"github.com/rogersnm/smoothies/internal/store"
)

const storageScopeName = "github.com/rogersnm/smoothies/storage"

// instruments is shared by the Primary and Secondary decorators. Every call
// gets a span and is counted in smoothies.storage.* metrics.
type instruments struct {
	tier   string
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

func newInstruments(tier string) instruments {
	m := Meter(storageScopeName)
	ops, _ := m.Int64Counter("smoothies.storage.operations",
		metric.WithDescription("Total storage operations executed"),
	)
	dur, _ := m.Float64Histogram("smoothies.storage.operation.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("smoothies.storage.errors",
		metric.WithDescription("Total storage operation errors"),
	)
	return instruments{tier: tier, tracer: Tracer(storageScopeName), ops: ops, dur: dur, errs: errs}
}

func (in instruments) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time, []attribute.KeyValue) {
	all := append([]attribute.KeyValue{
		attribute.String("db.operation", name),
		attribute.String("smoothies.store.tier", in.tier),
	}, attrs...)
	ctx, span := in.tracer.Start(ctx, "storage."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	in.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now(), all
}

func (in instruments) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs []attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	in.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

// InstrumentedPrimary wraps a store.Primary with tracing and metrics.
type InstrumentedPrimary struct {
	inner store.Primary
	instruments
}

// WrapPrimary returns p decorated with OTel instrumentation, or p itself
// when telemetry is disabled.
func WrapPrimary(p store.Primary) store.Primary {
	if !Enabled() {
		return p
	}
	return &InstrumentedPrimary{inner: p, instruments: newInstruments("primary")}
}

func (s *InstrumentedPrimary) Load(ctx context.Context) ([]model.Smoothie, error) {
	ctx, span, t, attrs := s.op(ctx, "load")
	v, err := s.inner.Load(ctx)
	span.SetAttributes(attribute.Int("smoothies.count", len(v)))
	s.done(ctx, span, t, err, attrs)
	return v, err
}

func (s *InstrumentedPrimary) Create(ctx context.Context, sm model.Smoothie) error {
	ctx, span, t, attrs := s.op(ctx, "create", attribute.String("smoothies.id", sm.ID))
	err := s.inner.Create(ctx, sm)
	s.done(ctx, span, t, err, attrs)
	return err
}

func (s *InstrumentedPrimary) Update(ctx context.Context, p model.Patch) error {
	ctx, span, t, attrs := s.op(ctx, "update", attribute.String("smoothies.id", p.ID))
	err := s.inner.Update(ctx, p)
	s.done(ctx, span, t, err, attrs)
	return err
}

func (s *InstrumentedPrimary) Delete(ctx context.Context, id string) error {
	ctx, span, t, attrs := s.op(ctx, "delete", attribute.String("smoothies.id", id))
	err := s.inner.Delete(ctx, id)
	s.done(ctx, span, t, err, attrs)
	return err
}

// InstrumentedSecondary wraps a store.Secondary with tracing and metrics.
type InstrumentedSecondary struct {
	inner store.Secondary
	instruments
}

// WrapSecondary returns s decorated with OTel instrumentation, or s itself
// when telemetry is disabled.
func WrapSecondary(s store.Secondary) store.Secondary {
	if !Enabled() {
		return s
	}
	return &InstrumentedSecondary{inner: s, instruments: newInstruments("secondary")}
}

func (s *InstrumentedSecondary) Create(ctx context.Context, sm model.Smoothie) error {
	ctx, span, t, attrs := s.op(ctx, "create", attribute.String("smoothies.id", sm.ID))
	err := s.inner.Create(ctx, sm)
	s.done(ctx, span, t, err, attrs)
	return err
}

func (s *InstrumentedSecondary) Update(ctx context.Context, sm model.Smoothie) error {
	ctx, span, t, attrs := s.op(ctx, "update", attribute.String("smoothies.id", sm.ID))
	err := s.inner.Update(ctx, sm)
	s.done(ctx, span, t, err, attrs)
	return err
}

func (s *InstrumentedSecondary) Delete(ctx context.Context, id string) error {
	ctx, span, t, attrs := s.op(ctx, "delete", attribute.String("smoothies.id", id))
	err := s.inner.Delete(ctx, id)
	s.done(ctx, span, t, err, attrs)
	return err
}
