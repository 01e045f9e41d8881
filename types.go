package keymint

import (
	"io"
	"time"

	internalaudit "github.com/keymint/keymint/internal/audit"
	internalmetrics "github.com/keymint/keymint/internal/metrics"
	"github.com/keymint/keymint/storage"
)

// TokenTypeBearer is the fixed scheme identifier returned with every pair.
const TokenTypeBearer = "Bearer"

// TokenPair is returned by [Manager.GenerateToken] and [Manager.RefreshToken].
// AccessToken and RefreshToken are the only copies of the plaintexts that
// will ever exist; the manager persists hashes.
type TokenPair struct {
	AccessToken  string
	RefreshToken string

	// ExpiresIn is the access-token lifetime in seconds.
	ExpiresIn int64

	// TokenType is always [TokenTypeBearer].
	TokenType string
}

// UserContext is the read-only view of a validated access token, returned by
// [Manager.ValidateToken].
type UserContext struct {
	UserID    string
	Scopes    []string
	Kind      storage.Kind
	ExpiresAt time.Time
}

// AuditEvent is a structured audit record emitted by the manager.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the manager's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricGenerateSuccess counts issued token pairs.
	MetricGenerateSuccess = internalmetrics.MetricGenerateSuccess
	// MetricGenerateFailure counts failed generation attempts.
	MetricGenerateFailure = internalmetrics.MetricGenerateFailure
	// MetricValidateSuccess counts access tokens that validated.
	MetricValidateSuccess = internalmetrics.MetricValidateSuccess
	// MetricValidateFailure counts rejected validation attempts.
	MetricValidateFailure = internalmetrics.MetricValidateFailure
	// MetricExpiredPurged counts expired records removed lazily on read.
	MetricExpiredPurged = internalmetrics.MetricExpiredPurged
	// MetricRefreshSuccess counts completed rotations.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricRefreshReuseBlocked counts rotations lost to a concurrent winner.
	MetricRefreshReuseBlocked = internalmetrics.MetricRefreshReuseBlocked
	// MetricRevokeSuccess counts revocations that removed a record.
	MetricRevokeSuccess = internalmetrics.MetricRevokeSuccess
	// MetricRevokeMiss counts idempotent revocations of unknown tokens.
	MetricRevokeMiss = internalmetrics.MetricRevokeMiss
	// MetricStorageFailure counts backend failures surfaced to callers.
	MetricStorageFailure = internalmetrics.MetricStorageFailure
	// MetricValidateLatency is the validation latency histogram.
	MetricValidateLatency = internalmetrics.MetricValidateLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
