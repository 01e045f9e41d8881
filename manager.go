package keymint

import (
	"log"
	"time"

	"github.com/keymint/keymint/internal/flows"
	"github.com/keymint/keymint/storage"
)

// Manager owns the token lifecycle: generation, validation, refresh rotation,
// and revocation. Construct through [Builder.Build]; all fields are set once
// and never mutated, so a built manager is safe for concurrent use.
//
// The manager holds a small constant number of storage calls per public
// operation and never blocks on anything else.
type Manager struct {
	config  Config
	store   storage.Storage
	clock   func() time.Time
	deps    flows.Deps
	audit   *auditDispatcher
	metrics *Metrics
}

// Close drains the audit dispatcher. Safe on a nil manager.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.audit != nil {
		m.audit.Close()
	}
}

// AuditDropped reports audit events lost to dispatcher backpressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time deep copy of all metrics.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) metricObserve(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}

func (m *Manager) warn(format string, args ...any) {
	log.Printf(format, args...)
}

func kindString(record *storage.Record) string {
	if record == nil {
		return ""
	}
	return record.Kind.String()
}
