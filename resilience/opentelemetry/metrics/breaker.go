package metrics

import (
	"context"
	"time"

	"github.com/LerianStudio/lib-resilience/resilience/circuitbreaker"
	"go.opentelemetry.io/otel/attribute"
)

// StateChangeRecorder counts circuit breaker state transitions. Register it
// with a circuitbreaker.Manager to export transition metrics.
type StateChangeRecorder struct {
	factory *MetricsFactory
}

// Compile-time assertion: the recorder is a valid listener.
var _ circuitbreaker.StateChangeListener = (*StateChangeRecorder)(nil)

// NewStateChangeRecorder creates a recorder over the given factory. A nil
// factory falls back to the no-op meter.
func NewStateChangeRecorder(factory *MetricsFactory) *StateChangeRecorder {
	if factory == nil {
		factory = NewNopFactory()
	}

	return &StateChangeRecorder{factory: factory}
}

// OnStateChange implements circuitbreaker.StateChangeListener.
func (r *StateChangeRecorder) OnStateChange(serviceName string, from, to circuitbreaker.State) {
	r.factory.AddCounter(context.Background(), MetricBreakerTransitions, 1,
		attribute.String("service", serviceName),
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	)
}

// BatchObserver records per-item batch outcomes. Wire it from the batch
// engine's progress callback or from the item processor itself.
type BatchObserver struct {
	factory *MetricsFactory
}

// NewBatchObserver creates an observer over the given factory. A nil
// factory falls back to the no-op meter.
func NewBatchObserver(factory *MetricsFactory) *BatchObserver {
	if factory == nil {
		factory = NewNopFactory()
	}

	return &BatchObserver{factory: factory}
}

// RecordItem records one processed item and its duration.
func (o *BatchObserver) RecordItem(ctx context.Context, jobID string, succeeded bool, duration time.Duration) {
	outcome := "failed"
	if succeeded {
		outcome = "completed"
	}

	attrs := []attribute.KeyValue{
		attribute.String("job_id", jobID),
		attribute.String("outcome", outcome),
	}

	o.factory.AddCounter(ctx, MetricBatchItemsProcessed, 1, attrs...)
	o.factory.RecordHistogram(ctx, MetricBatchItemDuration, duration.Seconds(), attrs...)
}
