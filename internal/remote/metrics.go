package remote

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectctl/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/projectctl/internal/remote"

// clientMetrics holds the client's otel instruments. Instruments that fail to
// register stay nil and are skipped.
type clientMetrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	stateChanges metric.Int64Counter
}

func newClientMetrics(meter metric.Meter, logger *logging.Logger) *clientMetrics {
	m := &clientMetrics{}
	ctx := context.Background()

	var err error
	m.requests, err = meter.Int64Counter(
		"projectctl.remote.requests_total",
		metric.WithDescription("Requests sent to the project service, labeled by operation and outcome."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn(ctx, "failed to create requests counter", zap.Error(err))
	}

	m.duration, err = meter.Float64Histogram(
		"projectctl.remote.request_duration_seconds",
		metric.WithDescription("Project service request duration in seconds, labeled by operation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		logger.Warn(ctx, "failed to create duration histogram", zap.Error(err))
	}

	m.stateChanges, err = meter.Int64Counter(
		"projectctl.remote.breaker_state_changes_total",
		metric.WithDescription("Circuit breaker transitions, labeled by target state."),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		logger.Warn(ctx, "failed to create breaker counter", zap.Error(err))
	}

	return m
}

func (m *clientMetrics) record(ctx context.Context, op string, status int, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
		attribute.Int("status", status),
	)
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("op", op)))
	}
}

func (m *clientMetrics) stateChanged(to string) {
	if m.stateChanges != nil {
		m.stateChanges.Add(context.Background(), 1, metric.WithAttributes(attribute.String("state", to)))
	}
}
