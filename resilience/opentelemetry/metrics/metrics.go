package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LerianStudio/lib-resilience/resilience/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrNilMeter indicates that a nil OTEL meter was provided.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Metric describes an instrument that the factory can create.
type Metric struct {
	Name        string
	Description string
	Unit        string
	// For histograms: explicit bucket boundaries.
	Buckets []float64
}

// Pre-configured metrics for the resilience packages.
var (
	// MetricBreakerTransitions counts circuit breaker state transitions.
	MetricBreakerTransitions = Metric{
		Name:        "circuit_breaker_transitions",
		Unit:        "1",
		Description: "Counts circuit breaker state transitions by service and target state.",
	}

	// MetricBatchItemsProcessed counts processed batch items by outcome.
	MetricBatchItemsProcessed = Metric{
		Name:        "batch_items_processed",
		Unit:        "1",
		Description: "Counts processed batch items by job and outcome.",
	}

	// MetricBatchItemDuration measures per-item processing time.
	MetricBatchItemDuration = Metric{
		Name:        "batch_item_duration_seconds",
		Unit:        "s",
		Description: "Measures batch item processing duration.",
		Buckets:     DefaultLatencyBuckets,
	}
)

// DefaultLatencyBuckets for duration measurements, in seconds.
var DefaultLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// MetricsFactory lazily creates and caches OTEL instruments using sync.Map
// for high-concurrency access.
type MetricsFactory struct {
	meter      metric.Meter
	counters   sync.Map // string -> metric.Int64Counter
	histograms sync.Map // string -> metric.Float64Histogram
	logger     log.Logger
}

// NewMetricsFactory creates a new MetricsFactory instance.
func NewMetricsFactory(meter metric.Meter, logger log.Logger) (*MetricsFactory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	if logger == nil {
		logger = &log.NoneLogger{}
	}

	return &MetricsFactory{meter: meter, logger: logger}, nil
}

// NewNopFactory returns a MetricsFactory backed by OpenTelemetry's no-op
// meter. Safe fallback when a real meter is unavailable.
func NewNopFactory() *MetricsFactory {
	return &MetricsFactory{
		meter:  noop.NewMeterProvider().Meter("nop"),
		logger: &log.NoneLogger{},
	}
}

// AddCounter increments the counter described by m. Instrument creation
// failures are logged and dropped; recording must never break the caller.
func (f *MetricsFactory) AddCounter(ctx context.Context, m Metric, value int64, attrs ...attribute.KeyValue) {
	counter, err := f.getOrCreateCounter(m)
	if err != nil {
		f.logger.Errorf("failed to create counter %q: %v", m.Name, err)
		return
	}

	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// RecordHistogram records a value on the histogram described by m.
func (f *MetricsFactory) RecordHistogram(ctx context.Context, m Metric, value float64, attrs ...attribute.KeyValue) {
	histogram, err := f.getOrCreateHistogram(m)
	if err != nil {
		f.logger.Errorf("failed to create histogram %q: %v", m.Name, err)
		return
	}

	histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

func (f *MetricsFactory) getOrCreateCounter(m Metric) (metric.Int64Counter, error) {
	if cached, ok := f.counters.Load(m.Name); ok {
		if c, ok := cached.(metric.Int64Counter); ok {
			return c, nil
		}

		return nil, fmt.Errorf("counter cache contains invalid type for %q", m.Name)
	}

	counter, err := f.meter.Int64Counter(m.Name,
		metric.WithDescription(m.Description),
		metric.WithUnit(m.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("create counter %q: %w", m.Name, err)
	}

	if actual, loaded := f.counters.LoadOrStore(m.Name, counter); loaded {
		// Another goroutine created it first, use that one.
		if c, ok := actual.(metric.Int64Counter); ok {
			return c, nil
		}

		return nil, fmt.Errorf("counter cache contains invalid type for %q", m.Name)
	}

	return counter, nil
}

func (f *MetricsFactory) getOrCreateHistogram(m Metric) (metric.Float64Histogram, error) {
	if cached, ok := f.histograms.Load(m.Name); ok {
		if h, ok := cached.(metric.Float64Histogram); ok {
			return h, nil
		}

		return nil, fmt.Errorf("histogram cache contains invalid type for %q", m.Name)
	}

	opts := []metric.Float64HistogramOption{
		metric.WithDescription(m.Description),
		metric.WithUnit(m.Unit),
	}

	buckets := m.Buckets
	if buckets == nil {
		buckets = DefaultLatencyBuckets
	}

	opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))

	histogram, err := f.meter.Float64Histogram(m.Name, opts...)
	if err != nil {
		return nil, fmt.Errorf("create histogram %q: %w", m.Name, err)
	}

	if actual, loaded := f.histograms.LoadOrStore(m.Name, histogram); loaded {
		if h, ok := actual.(metric.Float64Histogram); ok {
			return h, nil
		}

		return nil, fmt.Errorf("histogram cache contains invalid type for %q", m.Name)
	}

	return histogram, nil
}
