package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records analytics client metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records a completed transport send with its duration
	// and error status.
	RecordDispatch(ctx context.Context, msgType string, duration time.Duration, err error)

	// RecordDrop records a message rejected by the rate limiter.
	RecordDrop(ctx context.Context, msgType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	transportErrors metric.Int64Counter
	drops           metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("analytics")

	dispatches, err := meter.Int64Counter("analytics.messages.dispatched",
		metric.WithDescription("Number of messages handed to the transport"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("analytics.dispatch.latency_ms",
		metric.WithDescription("Transport send latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transportErrors, err := meter.Int64Counter("analytics.transport.errors",
		metric.WithDescription("Number of failed transport sends"),
	)
	if err != nil {
		return nil, err
	}

	drops, err := meter.Int64Counter("analytics.messages.dropped",
		metric.WithDescription("Number of messages rejected by the rate limiter"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		transportErrors: transportErrors,
		drops:           drops,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a completed transport send.
func (m *otelMetrics) RecordDispatch(ctx context.Context, msgType string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("type", msgType),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.transportErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordDrop records a rate-limited message.
func (m *otelMetrics) RecordDrop(ctx context.Context, msgType string) {
	m.drops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", msgType),
	))
}
