package keymint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keymint/keymint/storage"
)

func TestBuildRequiresStorage(t *testing.T) {
	if _, err := New().Build(); !errors.Is(err, ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired, got: %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Token.AccessTTL = -time.Minute

	_, err := New().
		WithConfig(cfg).
		WithStorage(storage.NewMemory()).
		Build()
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	builder := New().WithStorage(storage.NewMemory())

	manager, err := builder.Build()
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	defer manager.Close()

	if _, err := builder.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed on second build, got: %v", err)
	}
}

func TestBuildDefaultsAreUsable(t *testing.T) {
	manager, err := New().WithStorage(storage.NewMemory()).Build()
	if err != nil {
		t.Fatalf("build with defaults failed: %v", err)
	}
	defer manager.Close()

	pair, err := manager.GenerateToken(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Fatalf("expected default 1h access TTL, got %d seconds", pair.ExpiresIn)
	}
	if _, err := manager.ValidateToken(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestNilManagerOperationsFailClosed(t *testing.T) {
	var manager *Manager
	ctx := context.Background()

	if _, err := manager.GenerateToken(ctx, "alice", nil); !errors.Is(err, ErrManagerNotReady) {
		t.Fatalf("expected ErrManagerNotReady, got: %v", err)
	}
	if _, err := manager.ValidateToken(ctx, "x"); !errors.Is(err, ErrManagerNotReady) {
		t.Fatalf("expected ErrManagerNotReady, got: %v", err)
	}
	if _, err := manager.RefreshToken(ctx, "x"); !errors.Is(err, ErrManagerNotReady) {
		t.Fatalf("expected ErrManagerNotReady, got: %v", err)
	}
	if _, err := manager.RevokeToken(ctx, "x"); !errors.Is(err, ErrManagerNotReady) {
		t.Fatalf("expected ErrManagerNotReady, got: %v", err)
	}

	// Close and introspection are safe on nil too.
	manager.Close()
	if manager.AuditDropped() != 0 {
		t.Fatal("nil manager must report zero dropped events")
	}
}
