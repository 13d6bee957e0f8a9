// Package internal contains the telemetry shared by all the stages.
package internal

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationScope = "github.com/FerroO2000/blockring"

// Telemetry bundles the logger, the tracer and the meter of a stage.
type Telemetry struct {
	domain string
	name   string

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// NewTelemetry returns the telemetry for the stage with the given
// domain (ingress/egress) and name.
// The logger is derived from the default slog logger at call time.
func NewTelemetry(domain, name string) *Telemetry {
	return &Telemetry{
		domain: domain,
		name:   name,

		logger: slog.Default().With("domain", domain, "stage", name),
		tracer: otel.Tracer(instrumentationScope),
		meter:  otel.Meter(instrumentationScope),
	}
}

func (t *Telemetry) metricName(name string) string {
	return t.domain + "." + t.name + "." + name
}

// LogDebug logs a debug message.
func (t *Telemetry) LogDebug(msg string, args ...any) {
	t.logger.Debug(msg, args...)
}

// LogInfo logs an info message.
func (t *Telemetry) LogInfo(msg string, args ...any) {
	t.logger.Info(msg, args...)
}

// LogWarn logs a warning message.
func (t *Telemetry) LogWarn(msg string, args ...any) {
	t.logger.Warn(msg, args...)
}

// LogError logs an error message along with the error.
func (t *Telemetry) LogError(msg string, err error, args ...any) {
	t.logger.Error(msg, append([]any{"error", err}, args...)...)
}

// NewCounter registers an observable counter.
// The callback is called on every collection and must be safe
// for concurrent use (e.g. an atomic load).
func (t *Telemetry) NewCounter(name string, callback func() int64) {
	_, err := t.meter.Int64ObservableCounter(t.metricName(name),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(callback())
			return nil
		}),
	)

	if err != nil {
		t.LogError("failed to create counter", err, "name", name)
	}
}

// NewUpDownCounter registers an observable up/down counter.
// The same constraints of NewCounter apply to the callback.
func (t *Telemetry) NewUpDownCounter(name string, callback func() int64) {
	_, err := t.meter.Int64ObservableUpDownCounter(t.metricName(name),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(callback())
			return nil
		}),
	)

	if err != nil {
		t.LogError("failed to create up/down counter", err, "name", name)
	}
}

// NewHistogram returns a new histogram with the given unit.
// If the histogram cannot be created, a no-op one is returned.
func (t *Telemetry) NewHistogram(name, unit string) metric.Int64Histogram {
	hist, err := t.meter.Int64Histogram(t.metricName(name), metric.WithUnit(unit))
	if err != nil {
		t.LogError("failed to create histogram", err, "name", name)
		return noop.Int64Histogram{}
	}

	return hist
}

// NewTrace starts a new span tagged with the stage domain and name.
func (t *Telemetry) NewTrace(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("domain", t.domain),
			attribute.String("stage", t.name),
		),
	)
}
