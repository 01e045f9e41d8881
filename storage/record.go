package storage

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every backend transport failure (connectivity, script
// error, pool exhaustion). The manager propagates it unmasked.
var ErrUnavailable = errors.New("storage unavailable")

// Kind tags a stored record as belonging to an access or refresh token.
type Kind uint8

const (
	// KindAccess marks the short-lived bearer credential.
	KindAccess Kind = iota + 1
	// KindRefresh marks the one-time-use credential that mints a new pair.
	KindRefresh
)

// String returns the lowercase kind name used in audit events.
func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Record is the metadata persisted for one issued token. The token plaintext
// is never part of the record; the storage key is its SHA-256 hex digest.
//
// Record instances are written once at issuance and never mutated; deleting
// the record IS revocation — there is no separate revocation list.
type Record struct {
	UserID string
	Scopes []string
	Kind   Kind

	// ExpiresAt is set once at creation. Stored as UTC nanoseconds so it
	// round-trips through any backend without precision drift.
	ExpiresAt time.Time

	// LinkedAccessHash is set on refresh records only: the storage key of the
	// access record issued alongside. Empty for access records.
	LinkedAccessHash string
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Scopes != nil {
		out.Scopes = make([]string, len(r.Scopes))
		copy(out.Scopes, r.Scopes)
	}
	return &out
}

// Storage is the persistence contract consumed by the token manager. All
// three operations must be individually atomic per key; no cross-call
// transaction is required.
type Storage interface {
	// Set upserts the record under key, persisting a value-level copy.
	Set(ctx context.Context, key string, record *Record) error

	// Get returns a copy of the stored record. A missing key reports
	// (nil, false, nil) — absence is not an error.
	Get(ctx context.Context, key string) (*Record, bool, error)

	// Delete removes any record under key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}

// Consumer is an optional upgrade interface: atomic get-and-delete. When a
// backend implements it the manager consumes refresh and revoked records in
// one step, so concurrent callers racing on the same plaintext observe
// first-consume-wins instead of a lookup/delete window.
type Consumer interface {
	Consume(ctx context.Context, key string) (*Record, bool, error)
}
