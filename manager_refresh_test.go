package keymint

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRefreshTokenRotatesPair(t *testing.T) {
	manager, store, _ := newTestManager(t)
	ctx := context.Background()

	old, err := manager.GenerateToken(ctx, "alice", []string{"read"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	fresh, err := manager.RefreshToken(ctx, old.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if fresh.AccessToken == old.AccessToken || fresh.RefreshToken == old.RefreshToken {
		t.Fatal("rotation must mint brand-new plaintexts")
	}

	// User and scopes carry over to the successor pair.
	uc, err := manager.ValidateToken(ctx, fresh.AccessToken)
	if err != nil {
		t.Fatalf("new access token must validate: %v", err)
	}
	if uc.UserID != "alice" || len(uc.Scopes) != 1 || uc.Scopes[0] != "read" {
		t.Fatalf("successor pair lost identity: %+v", uc)
	}

	// Old pair is dead, both halves.
	if _, err := manager.ValidateToken(ctx, old.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("old access token must be invalid, got: %v", err)
	}
	if _, err := manager.RefreshToken(ctx, old.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("old refresh token must not rotate twice, got: %v", err)
	}

	// Net record count is unchanged: two deleted, two written.
	if store.Len() != 2 {
		t.Fatalf("expected 2 records after rotation, got %d", store.Len())
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	pair, err := manager.GenerateToken(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := manager.RefreshToken(ctx, pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token must not rotate, got: %v", err)
	}

	// The misuse attempt must not damage the pair.
	if _, err := manager.ValidateToken(ctx, pair.AccessToken); err != nil {
		t.Fatalf("access token must survive a refresh attempt: %v", err)
	}
	if _, err := manager.RefreshToken(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh token must still rotate: %v", err)
	}
}

func TestRefreshTokenUnknown(t *testing.T) {
	manager, _, _ := newTestManager(t)

	if _, err := manager.RefreshToken(context.Background(), "never-issued"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestRefreshTokenExpiredPurges(t *testing.T) {
	manager, store, clock := newTestManager(t)
	ctx := context.Background()

	pair, err := manager.GenerateToken(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	clock.Advance(24 * time.Hour)
	if _, err := manager.RefreshToken(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired refresh token must be invalid, got: %v", err)
	}

	// Only the presented refresh record is purged on this path; the access
	// record stays until its own lookup or the backend's TTL reclaims it.
	if store.Len() != 1 {
		t.Fatalf("expected 1 record after refresh-expiry purge, got %d", store.Len())
	}
}

func TestRefreshTokenAccessExpiryDoesNotBlockRotation(t *testing.T) {
	manager, _, clock := newTestManager(t)
	ctx := context.Background()

	pair, err := manager.GenerateToken(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Access token dead, refresh token alive: the normal renewal moment.
	clock.Advance(2 * time.Hour)
	if _, err := manager.ValidateToken(ctx, pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired access token, got: %v", err)
	}

	fresh, err := manager.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh must succeed while the refresh token lives: %v", err)
	}
	if _, err := manager.ValidateToken(ctx, fresh.AccessToken); err != nil {
		t.Fatalf("new access token must validate: %v", err)
	}
}

func TestRefreshConcurrencySingleWinner(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	pair, err := manager.GenerateToken(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := manager.RefreshToken(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	fail := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		if errors.Is(err, ErrTokenInvalid) {
			fail++
			continue
		}
		t.Fatalf("unexpected refresh error: %v", err)
	}

	if success != 1 {
		t.Fatalf("expected exactly one refresh success, got %d", success)
	}
	if fail != n-1 {
		t.Fatalf("expected %d refresh failures, got %d", n-1, fail)
	}
}
