package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// Metrics records counters for lifecycle operations. Export wiring is left
// to the host process; instruments are registered against the global meter
// provider.
type Metrics struct {
	transitionsApplied metric.Int64Counter
	transitionsDenied  metric.Int64Counter
	deadlinesCreated   metric.Int64Counter
	deadlinesExpired   metric.Int64Counter
	webhookFailures    metric.Int64Counter
}

// NewMetrics registers the lifecycle instruments.
func NewMetrics(serviceName string) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	applied, err := meter.Int64Counter("billflow.transitions.applied",
		metric.WithDescription("Number of bill transitions applied"))
	if err != nil {
		return nil, err
	}
	denied, err := meter.Int64Counter("billflow.transitions.denied",
		metric.WithDescription("Number of bill transitions denied"))
	if err != nil {
		return nil, err
	}
	created, err := meter.Int64Counter("billflow.deadlines.created",
		metric.WithDescription("Number of constitutional deadlines created"))
	if err != nil {
		return nil, err
	}
	expired, err := meter.Int64Counter("billflow.deadlines.expired",
		metric.WithDescription("Number of constitutional deadlines expired"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("billflow.webhooks.failures",
		metric.WithDescription("Number of failed webhook deliveries"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		transitionsApplied: applied,
		transitionsDenied:  denied,
		deadlinesCreated:   created,
		deadlinesExpired:   expired,
		webhookFailures:    failures,
	}, nil
}

// RecordTransitionApplied records a successful transition.
func (m *Metrics) RecordTransitionApplied(ctx context.Context, from, to bill.Status, actor bill.Role) {
	if m == nil {
		return
	}
	m.transitionsApplied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_status", string(from)),
		attribute.String("to_status", string(to)),
		attribute.String("actor", string(actor)),
	))
}

// RecordTransitionDenied records a rejected transition attempt.
func (m *Metrics) RecordTransitionDenied(ctx context.Context, from, to bill.Status, actor bill.Role) {
	if m == nil {
		return
	}
	m.transitionsDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_status", string(from)),
		attribute.String("to_status", string(to)),
		attribute.String("actor", string(actor)),
	))
}

// RecordDeadlineCreated records a newly scheduled deadline.
func (m *Metrics) RecordDeadlineCreated(ctx context.Context, kind deadline.Kind) {
	if m == nil {
		return
	}
	m.deadlinesCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
	))
}

// RecordDeadlineExpired records an expired deadline.
func (m *Metrics) RecordDeadlineExpired(ctx context.Context, kind deadline.Kind) {
	if m == nil {
		return
	}
	m.deadlinesExpired.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
	))
}

// RecordWebhookFailure records a failed webhook delivery.
func (m *Metrics) RecordWebhookFailure(ctx context.Context, endpointURL string) {
	if m == nil {
		return
	}
	m.webhookFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpointURL),
	))
}
