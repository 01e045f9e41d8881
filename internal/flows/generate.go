package flows

import (
	"context"
	"time"

	"github.com/keymint/keymint/storage"
)

// GenerateFailureKind classifies generation failures for root-level mapping.
type GenerateFailureKind int

const (
	GenerateFailureNone GenerateFailureKind = iota
	GenerateFailureInvalidUserID
	GenerateFailurePlaintext
	GenerateFailureStoreAccess
	GenerateFailureStoreRefresh
)

// GenerateResult carries either the issued pair or failure metadata.
type GenerateResult struct {
	Failure GenerateFailureKind
	Err     error

	UserID       string
	AccessToken  string
	RefreshToken string
	AccessHash   string
	RefreshHash  string
	ExpiresAt    time.Time
}

// GenerateDeps captures generation flow dependencies.
type GenerateDeps struct {
	NewPlaintext func() (string, error)
	HashToken    func(string) string
	Now          func() time.Time
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	Store        storage.Storage
}

// RunGenerate draws two independent secrets, hashes them, and writes the
// paired access/refresh records. The refresh record links back to the access
// hash so rotation and cascading revocation can find the sibling.
func RunGenerate(ctx context.Context, userID string, scopes []string, deps GenerateDeps) GenerateResult {
	if userID == "" {
		return GenerateResult{Failure: GenerateFailureInvalidUserID}
	}
	if scopes == nil {
		scopes = []string{}
	}

	accessToken, err := deps.NewPlaintext()
	if err != nil {
		return GenerateResult{Failure: GenerateFailurePlaintext, Err: err, UserID: userID}
	}
	refreshToken, err := deps.NewPlaintext()
	if err != nil {
		return GenerateResult{Failure: GenerateFailurePlaintext, Err: err, UserID: userID}
	}

	accessHash := deps.HashToken(accessToken)
	refreshHash := deps.HashToken(refreshToken)

	now := deps.Now()
	accessExpires := now.Add(deps.AccessTTL)
	refreshExpires := now.Add(deps.RefreshTTL)

	if err := deps.Store.Set(ctx, accessHash, &storage.Record{
		UserID:    userID,
		Scopes:    scopes,
		Kind:      storage.KindAccess,
		ExpiresAt: accessExpires,
	}); err != nil {
		return GenerateResult{Failure: GenerateFailureStoreAccess, Err: err, UserID: userID}
	}

	if err := deps.Store.Set(ctx, refreshHash, &storage.Record{
		UserID:           userID,
		Scopes:           scopes,
		Kind:             storage.KindRefresh,
		ExpiresAt:        refreshExpires,
		LinkedAccessHash: accessHash,
	}); err != nil {
		return GenerateResult{Failure: GenerateFailureStoreRefresh, Err: err, UserID: userID}
	}

	return GenerateResult{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessHash:   accessHash,
		RefreshHash:  refreshHash,
		ExpiresAt:    accessExpires,
	}
}
