package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID uint16

const (
	MetricGenerateSuccess MetricID = iota
	MetricGenerateFailure
	MetricValidateSuccess
	MetricValidateFailure
	MetricExpiredPurged
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshReuseBlocked
	MetricRevokeSuccess
	MetricRevokeMiss
	MetricStorageFailure
	MetricValidateLatency

	MetricIDCount
)

// BucketCount is the number of histogram buckets per latency metric.
const BucketCount = 8

// Bucket upper bounds, cumulative-exclusive: <1µs, <10µs, ... <1s, +inf.
var bucketBounds = [BucketCount - 1]time.Duration{
	time.Microsecond,
	10 * time.Microsecond,
	100 * time.Microsecond,
	time.Millisecond,
	10 * time.Millisecond,
	100 * time.Millisecond,
	time.Second,
}

var histogramIDs = []MetricID{
	MetricValidateLatency,
}

// Config controls whether metrics are collected at all and whether latency
// histograms are maintained in addition to counters.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds lock-free counters and optional latency histograms. All
// methods are safe for concurrent use; a disabled instance makes every
// operation a no-op.
type Metrics struct {
	enabled bool
	latency bool

	counters   [MetricIDCount]atomic.Uint64
	histograms map[MetricID]*[BucketCount]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance for the given config.
func New(cfg Config) *Metrics {
	m := &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatency,
	}
	if m.latency {
		m.histograms = make(map[MetricID]*[BucketCount]atomic.Uint64, len(histogramIDs))
		for _, id := range histogramIDs {
			m.histograms[id] = new([BucketCount]atomic.Uint64)
		}
	}
	return m
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Observe records a latency sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latency {
		return
	}
	h, ok := m.histograms[id]
	if !ok {
		return
	}

	bucket := BucketCount - 1
	for i, bound := range bucketBounds {
		if d < bound {
			bucket = i
			break
		}
	}
	h[bucket].Add(1)
}

// Snapshot deep-copies every counter and histogram.
func (m *Metrics) Snapshot() Snapshot {
	out := Snapshot{
		Counters:   make(map[MetricID]uint64, MetricIDCount),
		Histograms: make(map[MetricID][]uint64, len(m.histograms)),
	}
	if m == nil || !m.enabled {
		return out
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			out.Counters[id] = v
		}
	}
	for id, h := range m.histograms {
		buckets := make([]uint64, BucketCount)
		for i := range h {
			buckets[i] = h[i].Load()
		}
		out.Histograms[id] = buckets
	}
	return out
}
