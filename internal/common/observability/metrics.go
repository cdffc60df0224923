package observability

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider       *metric.MeterProvider
	meter               otelmetric.Meter
	submissionCounter   otelmetric.Int64Counter
	notificationCounter otelmetric.Int64Counter
	responseCounter     otelmetric.Int64Counter
	requestDuration     otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissionCounter, _ := meter.Int64Counter(
		"applications.submitted",
		otelmetric.WithDescription("Number of application submissions processed"),
	)

	notificationCounter, _ := meter.Int64Counter(
		"notifications.sent",
		otelmetric.WithDescription("Number of outbound notifications attempted"),
	)

	responseCounter, _ := meter.Int64Counter(
		"responses.completed",
		otelmetric.WithDescription("Number of guarantor/reference responses completed"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"http.request.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:       provider,
		meter:               meter,
		submissionCounter:   submissionCounter,
		notificationCounter: notificationCounter,
		responseCounter:     responseCounter,
		requestDuration:     requestDuration,
	}
}

func (o *Observability) RecordSubmission(ctx context.Context, applicationType, status string) {
	if o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("application_type", applicationType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordNotification(ctx context.Context, kind, status string) {
	if o.notificationCounter != nil {
		o.notificationCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordResponseCompleted(ctx context.Context, role string) {
	if o.responseCounter != nil {
		o.responseCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("role", role),
		))
	}
}

func (o *Observability) RecordRequestDuration(ctx context.Context, route string, duration time.Duration) {
	if o.requestDuration != nil {
		o.requestDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("route", route),
		))
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (o *Observability) Handler() http.Handler {
	return promhttp.Handler()
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
