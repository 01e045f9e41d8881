package flows

import (
	"context"
	"time"

	"github.com/keymint/keymint/storage"
)

// ValidateFailureKind classifies validation failures for root-level mapping.
// NotFound, WrongKind, and Expired are distinct here for metrics and audit;
// the root package collapses all three to one public error so callers cannot
// probe which case they hit.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureNotFound
	ValidateFailureWrongKind
	ValidateFailureExpired
	ValidateFailureStorage
)

// ValidateResult carries the matched record or failure metadata.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Hash    string
	Record  *storage.Record
}

// ValidateDeps captures validation flow dependencies.
type ValidateDeps struct {
	HashToken func(string) string
	Now       func() time.Time
	Store     storage.Storage
	Warn      func(string, ...any)
}

// RunValidate resolves an access-token plaintext to its record. Expired
// records are purged as a side effect before reporting failure; the purge is
// an eager-cleanup optimization and its errors are logged, not propagated,
// because backends with native TTL eviction reclaim the record anyway.
func RunValidate(ctx context.Context, token string, deps ValidateDeps) ValidateResult {
	hash := deps.HashToken(token)

	record, ok, err := deps.Store.Get(ctx, hash)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureStorage, Err: err, Hash: hash}
	}
	if !ok {
		return ValidateResult{Failure: ValidateFailureNotFound, Hash: hash}
	}

	if record.Kind != storage.KindAccess {
		return ValidateResult{Failure: ValidateFailureWrongKind, Hash: hash, Record: record}
	}

	if !record.ExpiresAt.After(deps.Now()) {
		if err := deps.Store.Delete(ctx, hash); err != nil && deps.Warn != nil {
			deps.Warn("keymint: expired token purge failed: %v", err)
		}
		return ValidateResult{Failure: ValidateFailureExpired, Hash: hash, Record: record}
	}

	return ValidateResult{Hash: hash, Record: record}
}
