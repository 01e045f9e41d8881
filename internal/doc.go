// Package internal contains helper utilities that are intentionally private
// to keymint, including secure token generation and hashing.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - flows — pure-function flow orchestrators for every Manager operation
//   - metrics — lock-free counters and latency histograms
//
// # What this package must NOT do
//
//   - Export types that appear in the public keymint API.
//   - Be imported by any package outside the keymint module.
package internal
