package internaldefs

import (
	keymint "github.com/keymint/keymint"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   keymint.MetricID
	Name string
	Help string
}

// HistogramDef names one exported latency histogram.
type HistogramDef struct {
	ID   keymint.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: keymint.MetricGenerateSuccess, Name: "keymint_generate_success_total", Help: "Issued token pairs."},
	{ID: keymint.MetricGenerateFailure, Name: "keymint_generate_failure_total", Help: "Failed token generation attempts."},
	{ID: keymint.MetricValidateSuccess, Name: "keymint_validate_success_total", Help: "Access tokens validated successfully."},
	{ID: keymint.MetricValidateFailure, Name: "keymint_validate_failure_total", Help: "Rejected validation attempts."},
	{ID: keymint.MetricExpiredPurged, Name: "keymint_expired_purged_total", Help: "Expired records purged lazily on read."},
	{ID: keymint.MetricRefreshSuccess, Name: "keymint_refresh_success_total", Help: "Completed refresh rotations."},
	{ID: keymint.MetricRefreshFailure, Name: "keymint_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: keymint.MetricRefreshReuseBlocked, Name: "keymint_refresh_reuse_blocked_total", Help: "Rotations lost to a concurrent winner."},
	{ID: keymint.MetricRevokeSuccess, Name: "keymint_revoke_success_total", Help: "Revocations that removed a record."},
	{ID: keymint.MetricRevokeMiss, Name: "keymint_revoke_miss_total", Help: "Idempotent revocations of unknown tokens."},
	{ID: keymint.MetricStorageFailure, Name: "keymint_storage_failure_total", Help: "Storage backend failures surfaced to callers."},
}

// HistogramDefs lists every latency histogram in exposition order.
var HistogramDefs = []HistogramDef{
	{ID: keymint.MetricValidateLatency, Name: "keymint_validate_latency", Help: "ValidateToken latency distribution."},
}

// HistogramBoundSuffix labels the eight fixed buckets.
var HistogramBoundSuffix = [8]string{
	"1us", "10us", "100us", "1ms", "10ms", "100ms", "1s", "inf",
}

// NormalizeBuckets pads or trims a snapshot bucket slice to the fixed width.
func NormalizeBuckets(buckets []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(buckets); i++ {
		out[i] = buckets[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts, the
// shape both exporters expose.
func CumulativeBuckets(buckets [8]uint64) [8]uint64 {
	var out [8]uint64
	var sum uint64
	for i, v := range buckets {
		sum += v
		out[i] = sum
	}
	return out
}
