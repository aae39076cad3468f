package health

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProducerSendRateChecker_Check(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		metrics     []Metric
		minSendRate int
		want        Result
	}{
		{
			name:        "metric absent",
			metrics:     []Metric{{Name: "byte-rate", Value: 100.0}},
			minSendRate: 1,
			want:        Unhealthy("Could not locate kafka metric 'record-send-rate'", nil),
		},
		{
			name:        "rate rounded up above threshold",
			metrics:     []Metric{{Name: RecordSendRateMetric, Value: "12.7"}},
			minSendRate: 10,
			want:        Healthy("Kafka producer record-send-rate 13 [min threshold 10]"),
		},
		{
			name:        "rate equal to threshold",
			metrics:     []Metric{{Name: RecordSendRateMetric, Value: 9.5}},
			minSendRate: 10,
			want:        Healthy("Kafka producer record-send-rate 10 [min threshold 10]"),
		},
		{
			name:        "rate below threshold",
			metrics:     []Metric{{Name: RecordSendRateMetric, Value: 9.4}},
			minSendRate: 10,
			want:        Unhealthy("Kafka producer record-send-rate 9 [min threshold 10]", nil),
		},
		{
			name:        "unparsable value counts as zero",
			metrics:     []Metric{{Name: RecordSendRateMetric, Value: "n/a"}},
			minSendRate: 1,
			want:        Unhealthy("Kafka producer record-send-rate 0 [min threshold 1]", nil),
		},
		{
			name:        "idle producer with zero threshold",
			metrics:     []Metric{{Name: RecordSendRateMetric, Value: 0}},
			minSendRate: 0,
			want:        Healthy("Kafka producer record-send-rate 0 [min threshold 0]"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewMockMetricSource(gomock.NewController(t))
			source.EXPECT().Metrics().Return(tt.metrics)

			checker, err := NewProducerSendRateChecker(source, tt.minSendRate)
			require.NoError(t, err)

			assert.Equal(t, tt.want, checker.Check(ctx))
		})
	}
}

func TestProducerSendRateChecker_MetricName(t *testing.T) {
	source := NewMockMetricSource(gomock.NewController(t))
	source.EXPECT().Metrics().Return([]Metric{
		{Name: RecordSendRateMetric, Value: 0},
		{Name: "custom-rate", Value: 42},
	})

	checker, err := NewProducerSendRateChecker(source, 5, WithMetricName("custom-rate"))
	require.NoError(t, err)

	assert.Equal(t, Healthy("Kafka producer custom-rate 42 [min threshold 5]"), checker.Check(context.Background()))
}

func TestNewProducerSendRateChecker_Validation(t *testing.T) {
	source := NewMockMetricSource(gomock.NewController(t))

	_, err := NewProducerSendRateChecker(nil, 1)
	assert.ErrorIs(t, err, ErrNilBackend)

	_, err = NewProducerSendRateChecker(source, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		value any
		want  int
	}{
		{value: 12.7, want: 13},
		{value: 12.5, want: 13},
		{value: 12.4, want: 12},
		{value: "0.5", want: 1},
		{value: int64(7), want: 7},
		{value: "abc", want: 0},
		{value: nil, want: 0},
		{value: math.NaN(), want: 0},
		{value: "1e19", want: math.MaxInt},
		{value: "1e300", want: math.MaxInt},
		{value: "1e400", want: math.MaxInt},
		{value: "Infinity", want: math.MaxInt},
		{value: math.Inf(1), want: math.MaxInt},
		{value: "-1e19", want: math.MinInt},
		{value: math.Inf(-1), want: math.MinInt},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRate(tt.value), "parseRate(%v)", tt.value)
	}
}

func TestProducerSendRateChecker_SaturatedRate(t *testing.T) {
	source := NewMockMetricSource(gomock.NewController(t))
	source.EXPECT().Metrics().Return([]Metric{{Name: RecordSendRateMetric, Value: "1e19"}})

	checker, err := NewProducerSendRateChecker(source, 10)
	require.NoError(t, err)

	res := checker.Check(context.Background())

	assert.True(t, res.IsHealthy())
	assert.Equal(t, fmt.Sprintf("Kafka producer record-send-rate %d [min threshold 10]", math.MaxInt), res.Message)
}

// resettingStats behaves like kafka.Writer.Stats: counters are handed out
// once and reset by the read.
type resettingStats struct {
	mu      sync.Mutex
	pending kafka.WriterStats
}

func (s *resettingStats) write(messages, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Messages += messages
	s.pending.Bytes += bytes
	s.pending.BatchSize.Count++
	s.pending.BatchSize.Sum += messages
}

func (s *resettingStats) Stats() kafka.WriterStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.pending
	s.pending = kafka.WriterStats{}
	return stats
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func metricValue(t *testing.T, metrics []Metric, name string) any {
	t.Helper()
	for _, m := range metrics {
		if m.Name == name {
			return m.Value
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestWriterMetrics(t *testing.T) {
	t.Run("should expose the producer metrics", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		metrics := newWriterMetrics(&resettingStats{}, 10*time.Second, clock.Now)

		got := metrics.Metrics()

		names := make([]string, len(got))
		for i, m := range got {
			names[i] = m.Name
		}
		assert.Equal(t, []string{RecordSendRateMetric, "record-error-rate", "byte-rate", "batch-size-avg"}, names)
		assert.Equal(t, 0.0, got[0].Value)
	})

	t.Run("should report the same rate to consecutive checks", func(t *testing.T) {
		// given
		clock := &fakeClock{now: time.Now()}
		stats := &resettingStats{}
		checker, err := NewProducerSendRateChecker(newWriterMetrics(stats, 10*time.Second, clock.Now), 1)
		require.NoError(t, err)

		stats.write(5, 500)
		clock.Advance(time.Second)

		// when
		first := checker.Check(context.Background())
		second := checker.Check(context.Background())

		// then
		assert.Equal(t, Healthy("Kafka producer record-send-rate 5 [min threshold 1]"), first)
		assert.Equal(t, first, second)
	})

	t.Run("should compute rates over the trailing window", func(t *testing.T) {
		// given
		clock := &fakeClock{now: time.Now()}
		stats := &resettingStats{}
		metrics := newWriterMetrics(stats, 10*time.Second, clock.Now)

		stats.write(20, 2000)
		clock.Advance(2 * time.Second)

		// when
		got := metrics.Metrics()

		// then
		assert.Equal(t, 10.0, metricValue(t, got, RecordSendRateMetric))
		assert.Equal(t, 1000.0, metricValue(t, got, "byte-rate"))
		assert.Equal(t, 20.0, metricValue(t, got, "batch-size-avg"))

		// when the window passes without sends
		clock.Advance(30 * time.Second)
		got = metrics.Metrics()

		// then
		assert.Equal(t, 0.0, metricValue(t, got, RecordSendRateMetric))
		assert.Equal(t, 0.0, metricValue(t, got, "batch-size-avg"))
	})

	t.Run("should be safe for concurrent readers", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		stats := &resettingStats{}
		metrics := newWriterMetrics(stats, 10*time.Second, clock.Now)
		stats.write(10, 100)
		clock.Advance(time.Second)

		var wg sync.WaitGroup
		reads := make([][]Metric, 8)
		for i := range reads {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reads[i] = metrics.Metrics()
			}()
		}
		wg.Wait()

		for _, got := range reads {
			assert.Equal(t, 10.0, metricValue(t, got, RecordSendRateMetric))
		}
	})

	t.Run("should read a kafka-go writer", func(t *testing.T) {
		writer := &kafka.Writer{Addr: kafka.TCP("localhost:9092"), Topic: "heartbeat"}
		t.Cleanup(func() { _ = writer.Close() })

		got := NewWriterMetrics(writer, 0).Metrics()

		assert.Len(t, got, 4)
	})
}
