package health

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=kafka_producer.go -destination=mock_kafka_producer_test.go -package=health

// RecordSendRateMetric is the producer metric checked by default.
const RecordSendRateMetric = "record-send-rate"

// Metric is a named producer metric. Value is usually numeric but is only
// ever read through its string form.
type Metric struct {
	Name  string
	Value any
}

// MetricSource exposes a producer's metrics.
type MetricSource interface {
	Metrics() []Metric
}

// ProducerSendRateOption configures a ProducerSendRateChecker.
type ProducerSendRateOption func(*ProducerSendRateChecker)

// WithMetricName overrides the metric the checker reads.
func WithMetricName(name string) ProducerSendRateOption {
	return func(c *ProducerSendRateChecker) {
		if name != "" {
			c.metricName = name
		}
	}
}

// ProducerSendRateChecker detects stalled producers: it is healthy while
// the producer's send rate is at least minSendRate.
type ProducerSendRateChecker struct {
	source      MetricSource
	minSendRate int
	metricName  string
}

// NewProducerSendRateChecker creates a producer send rate checker.
func NewProducerSendRateChecker(source MetricSource, minSendRate int, opts ...ProducerSendRateOption) (*ProducerSendRateChecker, error) {
	if source == nil {
		return nil, fmt.Errorf("producer metrics: %w", ErrNilBackend)
	}
	if minSendRate < 0 {
		return nil, fmt.Errorf("min send rate %d: %w", minSendRate, ErrInvalidThreshold)
	}
	c := &ProducerSendRateChecker{
		source:      source,
		minSendRate: minSendRate,
		metricName:  RecordSendRateMetric,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check compares the rounded send rate with the minimum.
func (c *ProducerSendRateChecker) Check(_ context.Context) Result {
	metric, ok := c.lookup()
	if !ok {
		return Unhealthy(fmt.Sprintf("Could not locate kafka metric '%s'", c.metricName), nil)
	}

	sendRate := parseRate(metric.Value)
	msg := fmt.Sprintf("Kafka producer %s %d [min threshold %d]", c.metricName, sendRate, c.minSendRate)
	if sendRate < c.minSendRate {
		return Unhealthy(msg, nil)
	}
	return Healthy(msg)
}

func (c *ProducerSendRateChecker) lookup() (Metric, bool) {
	for _, m := range c.source.Metrics() {
		if m.Name == c.metricName {
			return m, true
		}
	}
	return Metric{}, false
}

// parseRate reads a metric value as a rate. Values that do not parse count
// as 0, and so does NaN. Out of range values saturate at math.MaxInt and
// math.MinInt. Rounding is math.Round: halves go away from zero.
func parseRate(v any) int {
	f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(math.Round(f))
	}
}

// DefaultRateWindow is the trailing window WriterMetrics computes rates over.
const DefaultRateWindow = 30 * time.Second

// WriterStats is the part of a kafka-go Writer read by WriterMetrics.
// Writer.Stats resets the writer's counters on every call.
type WriterStats interface {
	Stats() kafka.WriterStats
}

type writerTotals struct {
	messages, errors, bytes int64
	batches, batchSizeSum   int64
}

type writerSample struct {
	at     time.Time
	totals writerTotals
}

// WriterMetrics derives producer rates from a kafka-go Writer. Every read
// folds the writer's resetting counters into running totals and keeps
// timestamped samples, so rates cover a trailing window and reading them
// does not disturb later reads.
type WriterMetrics struct {
	stats  WriterStats
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	totals  writerTotals
	samples []writerSample
}

// NewWriterMetrics creates a metric source for writer. A non-positive window
// selects DefaultRateWindow.
func NewWriterMetrics(writer WriterStats, window time.Duration) *WriterMetrics {
	return newWriterMetrics(writer, window, time.Now)
}

func newWriterMetrics(writer WriterStats, window time.Duration, now func() time.Time) *WriterMetrics {
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &WriterMetrics{
		stats:   writer,
		window:  window,
		now:     now,
		samples: []writerSample{{at: now()}},
	}
}

// Metrics returns record-send-rate, record-error-rate, byte-rate and
// batch-size-avg over the trailing window.
func (w *WriterMetrics) Metrics() []Metric {
	w.mu.Lock()
	base, cur := w.sample()
	w.mu.Unlock()

	elapsed := cur.at.Sub(base.at).Seconds()
	rate := func(n int64) float64 {
		if elapsed <= 0 {
			return 0
		}
		return float64(n) / elapsed
	}

	var batchSizeAvg float64
	if batches := cur.totals.batches - base.totals.batches; batches > 0 {
		batchSizeAvg = float64(cur.totals.batchSizeSum-base.totals.batchSizeSum) / float64(batches)
	}

	return []Metric{
		{Name: RecordSendRateMetric, Value: rate(cur.totals.messages - base.totals.messages)},
		{Name: "record-error-rate", Value: rate(cur.totals.errors - base.totals.errors)},
		{Name: "byte-rate", Value: rate(cur.totals.bytes - base.totals.bytes)},
		{Name: "batch-size-avg", Value: batchSizeAvg},
	}
}

// sample records the current totals and returns the window's base sample
// along with the new one. The base is the newest sample at or before the
// window start, or the oldest sample when none is that old. w.mu is held.
func (w *WriterMetrics) sample() (base, cur writerSample) {
	stats := w.stats.Stats()
	w.totals.messages += stats.Messages
	w.totals.errors += stats.Errors
	w.totals.bytes += stats.Bytes
	w.totals.batches += stats.BatchSize.Count
	w.totals.batchSizeSum += stats.BatchSize.Sum

	now := w.now()
	cur = writerSample{at: now, totals: w.totals}
	w.samples = append(w.samples, cur)

	cutoff := now.Add(-w.window)
	i := 0
	for i+1 < len(w.samples)-1 && !w.samples[i+1].at.After(cutoff) {
		i++
	}
	w.samples = w.samples[i:]
	return w.samples[0], cur
}
