package flows

import (
	"context"
	"time"

	"github.com/keymint/keymint/storage"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureNotFound
	RefreshFailureWrongKind
	RefreshFailureExpired
	// RefreshFailureConsumed means the record vanished between lookup and
	// consume: a racing call rotated the same plaintext first. First consume
	// wins; the loser reports the token as already spent.
	RefreshFailureConsumed
	RefreshFailureStorage
	RefreshFailureGenerate
)

// RefreshResult carries either the successor pair or failure metadata.
type RefreshResult struct {
	Failure RefreshFailureKind
	Err     error
	Hash    string
	Record  *storage.Record

	Pair GenerateResult
}

// RefreshDeps captures refresh flow dependencies. Consume is the manager's
// get-and-delete: atomic when the backend implements storage.Consumer,
// otherwise a best-effort lookup-then-delete fallback.
type RefreshDeps struct {
	HashToken func(string) string
	Now       func() time.Time
	Store     storage.Storage
	Consume   func(ctx context.Context, key string) (*storage.Record, bool, error)
	Generate  func(ctx context.Context, userID string, scopes []string) GenerateResult
	Warn      func(string, ...any)
}

// RunRefresh rotates a refresh token: the presented record and its linked
// access record are deleted, then a brand-new pair is minted with the
// original user and scopes. A refresh token mints at most one successor.
//
// Kind and expiry are checked on the looked-up record BEFORE the consume, so
// presenting an access token here never destroys it. The record can only be
// re-created under the same key by re-issuing the same plaintext, which the
// secret width makes unreachable, so the post-check consume is sound.
func RunRefresh(ctx context.Context, token string, deps RefreshDeps) RefreshResult {
	hash := deps.HashToken(token)

	record, ok, err := deps.Store.Get(ctx, hash)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStorage, Err: err, Hash: hash}
	}
	if !ok {
		return RefreshResult{Failure: RefreshFailureNotFound, Hash: hash}
	}

	if record.Kind != storage.KindRefresh {
		return RefreshResult{Failure: RefreshFailureWrongKind, Hash: hash, Record: record}
	}

	if !record.ExpiresAt.After(deps.Now()) {
		if err := deps.Store.Delete(ctx, hash); err != nil && deps.Warn != nil {
			deps.Warn("keymint: expired refresh token purge failed: %v", err)
		}
		return RefreshResult{Failure: RefreshFailureExpired, Hash: hash, Record: record}
	}

	// Invariant says the link is always present; tolerate its absence rather
	// than failing the rotation.
	if record.LinkedAccessHash != "" {
		if err := deps.Store.Delete(ctx, record.LinkedAccessHash); err != nil {
			return RefreshResult{Failure: RefreshFailureStorage, Err: err, Hash: hash, Record: record}
		}
	}

	_, existed, err := deps.Consume(ctx, hash)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStorage, Err: err, Hash: hash, Record: record}
	}
	if !existed {
		return RefreshResult{Failure: RefreshFailureConsumed, Hash: hash, Record: record}
	}

	pair := deps.Generate(ctx, record.UserID, record.Scopes)
	if pair.Failure != GenerateFailureNone {
		return RefreshResult{
			Failure: RefreshFailureGenerate,
			Err:     pair.Err,
			Hash:    hash,
			Record:  record,
			Pair:    pair,
		}
	}

	return RefreshResult{Hash: hash, Record: record, Pair: pair}
}
