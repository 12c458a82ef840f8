package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OTel metric instruments for the assistant gateway.
type Metrics struct {
	TurnCount            metric.Int64Counter
	ActionCount          metric.Int64Counter
	FallbackCount        metric.Int64Counter
	ConfirmationLatency  metric.Float64Histogram
	ConfirmationOutcomes metric.Int64Counter
}

// NewMetrics creates the gateway metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("newsdesk-assistant")

	turnCount, err := meter.Int64Counter("assistant.turn.count",
		metric.WithDescription("Number of chat turns processed"),
	)
	if err != nil {
		return nil, err
	}

	actionCount, err := meter.Int64Counter("assistant.action.count",
		metric.WithDescription("Number of UI actions executed"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter("assistant.fallback.count",
		metric.WithDescription("Number of fallback navigations for unhandled actions"),
	)
	if err != nil {
		return nil, err
	}

	confirmationLatency, err := meter.Float64Histogram("assistant.confirmation.latency_seconds",
		metric.WithDescription("Time from confirmation prompt to user decision"),
	)
	if err != nil {
		return nil, err
	}

	confirmationOutcomes, err := meter.Int64Counter("assistant.confirmation.outcomes",
		metric.WithDescription("Confirmation decisions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TurnCount:            turnCount,
		ActionCount:          actionCount,
		FallbackCount:        fallbackCount,
		ConfirmationLatency:  confirmationLatency,
		ConfirmationOutcomes: confirmationOutcomes,
	}, nil
}

// RecordTurn records a processed chat turn.
func (m *Metrics) RecordTurn(ctx context.Context, role string, ok bool) {
	if m == nil {
		return
	}
	m.TurnCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("role", role),
			attribute.Bool("ok", ok),
		),
	)
}

// RecordAction records an executed UI action.
func (m *Metrics) RecordAction(ctx context.Context, actionType string, success bool) {
	if m == nil {
		return
	}
	m.ActionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("type", actionType),
			attribute.Bool("success", success),
		),
	)
}

// RecordFallback records a fallback navigation for an unhandled action.
func (m *Metrics) RecordFallback(ctx context.Context, actionType string) {
	if m == nil {
		return
	}
	m.FallbackCount.Add(ctx, 1,
		metric.WithAttributes(attribute.String("type", actionType)),
	)
}

// RecordConfirmation records a confirmation decision and its latency.
func (m *Metrics) RecordConfirmation(ctx context.Context, confirmed bool, waited time.Duration) {
	if m == nil {
		return
	}
	m.ConfirmationOutcomes.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("confirmed", confirmed)),
	)
	m.ConfirmationLatency.Record(ctx, waited.Seconds())
}
