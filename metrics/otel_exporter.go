package metrics

import (
	"context"
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	meterName    = "botgate"
	meterVersion = "1.0.0"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prom.Registry
	collector     Collector

	// OTel meters and instruments
	meter            metric.Meter
	inFlightGauge    metric.Int64ObservableGauge
	inboxLengthGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format.
// Metrics are registered on registry; a nil registry gets a fresh one.
func NewOTelExporter(registry *prom.Registry) (*OTelExporter, error) {
	if registry == nil {
		registry = prom.NewRegistry()
	}

	// Create Prometheus exporter
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	return &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		meter:         meterProvider.Meter(meterName, metric.WithInstrumentationVersion(meterVersion)),
	}, nil
}

// RegisterCollector creates the gauges fed by collector. Counters created through
// MeterProvider can exist before, which lets the runner report to them.
func (oe *OTelExporter) RegisterCollector(collector Collector) error {
	oe.collector = collector
	if err := oe.registerInstruments(); err != nil {
		return fmt.Errorf("registering instruments: %w", err)
	}
	return nil
}

// registerInstruments creates the observable gauges and one callback feeding both,
// so a scrape collects once.
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.inFlightGauge, err = oe.meter.Int64ObservableGauge(
		"botgate.tasks.in_flight",
		metric.WithDescription("Background update tasks still running"),
		metric.WithUnit("{tasks}"),
	)
	if err != nil {
		return fmt.Errorf("creating in-flight gauge: %w", err)
	}

	oe.inboxLengthGauge, err = oe.meter.Int64ObservableGauge(
		"botgate.inbox.length",
		metric.WithDescription("Updates waiting in the inbox stream"),
		metric.WithUnit("{updates}"),
	)
	if err != nil {
		return fmt.Errorf("creating inbox length gauge: %w", err)
	}

	_, err = oe.meter.RegisterCallback(oe.observe, oe.inFlightGauge, oe.inboxLengthGauge)
	if err != nil {
		return fmt.Errorf("registering gauge callback: %w", err)
	}

	return nil
}

// observe reports the in-flight count even when the inbox cannot be read
func (oe *OTelExporter) observe(ctx context.Context, observer metric.Observer) error {
	snapshot, err := oe.collector.Collect(ctx)
	observer.ObserveInt64(oe.inFlightGauge, snapshot.InFlight)
	if err != nil {
		return err
	}
	observer.ObserveInt64(oe.inboxLengthGauge, snapshot.InboxLength)
	return nil
}

// MeterProvider returns the provider counters should be created on
func (oe *OTelExporter) MeterProvider() metric.MeterProvider {
	return oe.meterProvider
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
