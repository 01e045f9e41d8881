// Package metrics implements lock-free counters and latency histograms for
// the token manager's hot paths.
//
// # Architecture boundaries
//
// This package owns counting and snapshotting only. Metric naming and export
// formats live in metrics/export; the Manager decides which metric to bump.
//
// # What this package must NOT do
//
//   - Allocate on Inc/Observe.
//   - Import keymint or perform any I/O.
package metrics
