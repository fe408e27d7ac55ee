// internal/common/observability/metrics.go
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records request-level instruments through OpenTelemetry.
// The Prometheus exporter registers with the default registry, so these
// series appear on /metrics next to the promauto ones.
type Observability struct {
	meterProvider   *metric.MeterProvider
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
	screenEvents    otelmetric.Int64Counter
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	return newWithReader(serviceName, exporter)
}

func newWithReader(serviceName string, reader metric.Reader) (*Observability, error) {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, err := meter.Int64Counter(
		"admin.requests",
		otelmetric.WithDescription("Number of admin API requests handled"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"admin.request.duration",
		otelmetric.WithDescription("Admin API request duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	screenEvents, err := meter.Int64Counter(
		"waitlist.screen.events",
		otelmetric.WithDescription("Waitlist screen lifecycle events"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:   provider,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		screenEvents:    screenEvents,
	}, nil
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	o.requestCounter.Add(ctx, 1, attrs)
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordScreenEvent counts opened, closed and expired screens.
func (o *Observability) RecordScreenEvent(ctx context.Context, event string) {
	if o == nil {
		return
	}
	o.screenEvents.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("event", event)))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
