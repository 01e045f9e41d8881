// Package storage defines the persistence capability consumed by the token
// manager, plus the shipped backends.
//
// # Components
//
//   - [Storage] — the three-operation contract (Set, Get, Delete) every
//     backend must satisfy. Get reports absence with a comma-ok bool and
//     never treats a missing key as an error; Delete is an idempotent no-op
//     for unknown keys.
//   - [Consumer] — optional capability: atomic get-and-delete. Backends that
//     can delete conditionally (Redis GETDEL, SQL DELETE ... RETURNING, the
//     in-memory mutex) implement it so the manager can close the
//     lookup-then-delete race on rotation and revocation.
//   - [Record] — the token metadata value. Backends persist an encoded copy
//     and decode a fresh value on every read, so callers can never mutate
//     stored state through a retained reference.
//   - [Memory], [Redis], [Postgres] — shipped backends.
//
// # Architecture boundaries
//
// storage knows nothing about token semantics. Keys are opaque strings (the
// manager passes SHA-256 hex digests); expiry enforcement, kind checks, and
// revocation policy all live in the manager. A backend may additionally evict
// records natively once Record.ExpiresAt passes (Redis TTL), but the manager
// never relies on that for correctness.
//
// # What this package must NOT do
//
//   - Import the root keymint package.
//   - Interpret Record fields beyond serializing them.
//   - Mask backend failures: transport errors wrap [ErrUnavailable] and
//     propagate to the caller.
package storage
