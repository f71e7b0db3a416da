package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes of a delivery on the public endpoint
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeUnreadable  = "unreadable"
	OutcomeUnscheduled = "unscheduled"
)

// Recorder owns the event counters
type Recorder struct {
	updates        metric.Int64Counter
	configurations metric.Int64Counter
	tasks          metric.Int64Counter
}

// NewRecorder creates the counters on the given provider
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName, metric.WithInstrumentationVersion(meterVersion))

	updates, err := meter.Int64Counter(
		"botgate.updates.received",
		metric.WithDescription("Deliveries received on the public endpoint by outcome"),
		metric.WithUnit("{updates}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating updates counter: %w", err)
	}

	configurations, err := meter.Int64Counter(
		"botgate.webhook.configurations",
		metric.WithDescription("setWebhook calls answered by the provider"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating configurations counter: %w", err)
	}

	tasks, err := meter.Int64Counter(
		"botgate.tasks.finished",
		metric.WithDescription("Background update tasks finished by outcome"),
		metric.WithUnit("{tasks}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tasks counter: %w", err)
	}

	return &Recorder{
		updates:        updates,
		configurations: configurations,
		tasks:          tasks,
	}, nil
}

// UpdateReceived counts one delivery
func (r *Recorder) UpdateReceived(ctx context.Context, outcome string) {
	r.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// WebhookConfigured counts one answered setWebhook call
func (r *Recorder) WebhookConfigured(ctx context.Context, success bool) {
	r.configurations.Add(ctx, 1, metric.WithAttributes(attribute.String("success", strconv.FormatBool(success))))
}

// TaskFinished implements dispatch.Observer
func (r *Recorder) TaskFinished(ctx context.Context, _ string, outcome string) {
	r.tasks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
