package keymint

import (
	"context"
	"errors"
	"testing"
)

// Walks one session through its whole life: issue, use, rotate, reuse the
// spent token, use the successor, revoke, and confirm everything is dead.
func TestTokenLifecycleEndToEnd(t *testing.T) {
	manager, store, _ := newTestManager(t)
	ctx := context.Background()

	// 1. Issue a pair.
	first, err := manager.GenerateToken(ctx, "alice", []string{"read"})
	if err != nil {
		t.Fatalf("step 1 generate failed: %v", err)
	}

	// 2. The access token validates.
	uc, err := manager.ValidateToken(ctx, first.AccessToken)
	if err != nil {
		t.Fatalf("step 2 validate failed: %v", err)
	}
	if uc.UserID != "alice" {
		t.Fatalf("step 2 wrong user: %q", uc.UserID)
	}

	// 3. Rotate.
	second, err := manager.RefreshToken(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("step 3 refresh failed: %v", err)
	}

	// 4. The original access token is dead.
	if _, err := manager.ValidateToken(ctx, first.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("step 4 expected ErrTokenInvalid, got: %v", err)
	}

	// 5. The spent refresh token does not rotate again.
	if _, err := manager.RefreshToken(ctx, first.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("step 5 expected ErrTokenInvalid, got: %v", err)
	}

	// 6. The successor access token validates with the same identity.
	uc, err = manager.ValidateToken(ctx, second.AccessToken)
	if err != nil {
		t.Fatalf("step 6 validate failed: %v", err)
	}
	if uc.UserID != "alice" || len(uc.Scopes) != 1 || uc.Scopes[0] != "read" {
		t.Fatalf("step 6 identity drifted: %+v", uc)
	}

	// 7. Revoking the successor refresh token kills the session completely.
	revoked, err := manager.RevokeToken(ctx, second.RefreshToken)
	if err != nil || !revoked {
		t.Fatalf("step 7 revoke: revoked=%v err=%v", revoked, err)
	}
	if _, err := manager.ValidateToken(ctx, second.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("step 7 expected dead access token, got: %v", err)
	}
	if _, err := manager.RefreshToken(ctx, second.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("step 7 expected dead refresh token, got: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("step 7 expected empty store, got %d records", store.Len())
	}
}
