// Package keymint issues, validates, refreshes, and revokes opaque bearer
// token pairs (access + refresh) with pluggable persistence for token
// metadata.
//
// Tokens are opaque random identifiers: 32 bytes of crypto/rand output,
// URL-safe encoded, with all semantics held server-side. Only the SHA-256 hex
// digest of a plaintext is ever persisted, so compromise of the storage layer
// alone does not yield usable tokens. The package is designed for concurrent
// server workloads: Manager methods are safe to call from multiple goroutines
// after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// keymint is the public surface. It exposes [Manager], [Builder], [Config],
// and value types (TokenPair, UserContext, MetricsSnapshot). All internal
// coordination — flow orchestration, audit dispatch, metric counting — lives
// under internal/ and is never exported. Persistence is the
// [storage.Storage] capability; any backend (in-process map, Redis, SQL)
// substitutes without touching the manager.
//
// # What this package must NOT do
//
//   - Authenticate users (password checks, identity federation) — callers do
//     that before asking for a pair.
//   - Encode claims into tokens; tokens carry no self-describing payload.
//   - Coordinate across storage replicas — that is the backend's job.
//
// # Concurrency contract
//
// The manager takes no locks; correctness rides on per-key atomicity of the
// storage backend. Rotation and revocation consume records atomically when
// the backend implements [storage.Consumer] (first consume wins); otherwise
// a narrow lookup-then-delete window remains, in which a racing duplicate
// call can observe the record before the winner's delete lands.
package keymint
