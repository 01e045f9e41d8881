package flows

import (
	"context"

	"github.com/keymint/keymint/storage"
)

// RevokeFailureKind classifies revocation failures for root-level mapping.
type RevokeFailureKind int

const (
	RevokeFailureNone RevokeFailureKind = iota
	RevokeFailureStorage
)

// RevokeResult reports whether a record was found and removed.
type RevokeResult struct {
	Failure RevokeFailureKind
	Err     error
	Hash    string
	Record  *storage.Record

	// Revoked is false for unknown, already-revoked, and expired-then-evicted
	// tokens — an idempotent miss, not an error.
	Revoked bool
}

// RevokeDeps captures revocation flow dependencies.
type RevokeDeps struct {
	HashToken func(string) string
	Store     storage.Storage
	Consume   func(ctx context.Context, key string) (*storage.Record, bool, error)
}

// RunRevoke removes the record for any presented token. Revoking a refresh
// token cascades to its linked access record first: the refresh token anchors
// the session, so killing it kills the session. Revoking an access token
// leaves the sibling refresh token usable — full logout revokes both.
func RunRevoke(ctx context.Context, token string, deps RevokeDeps) RevokeResult {
	hash := deps.HashToken(token)

	record, ok, err := deps.Store.Get(ctx, hash)
	if err != nil {
		return RevokeResult{Failure: RevokeFailureStorage, Err: err, Hash: hash}
	}
	if !ok {
		return RevokeResult{Hash: hash}
	}

	if record.Kind == storage.KindRefresh && record.LinkedAccessHash != "" {
		if err := deps.Store.Delete(ctx, record.LinkedAccessHash); err != nil {
			return RevokeResult{Failure: RevokeFailureStorage, Err: err, Hash: hash, Record: record}
		}
	}

	_, existed, err := deps.Consume(ctx, hash)
	if err != nil {
		return RevokeResult{Failure: RevokeFailureStorage, Err: err, Hash: hash, Record: record}
	}

	return RevokeResult{Hash: hash, Record: record, Revoked: existed}
}
