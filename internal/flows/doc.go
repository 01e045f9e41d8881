// Package flows contains pure-function orchestrators for every Manager operation.
//
// Each flow function (RunGenerate, RunValidate, RunRefresh, RunRevoke) accepts
// a typed dependency struct and returns a classified result without
// side-effects beyond those dependencies. This design enables exhaustive unit
// testing with mock dependencies and keeps the Manager type thin.
//
// # Architecture boundaries
//
// Flow functions coordinate storage calls, token hashing, and the injected
// clock. They do NOT own any of these resources — ownership stays with the
// Manager, which also maps failure kinds to public sentinel errors and emits
// audit events and metrics.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import keymint (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency interfaces.
package flows
