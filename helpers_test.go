package keymint

import (
	"sync"
	"testing"
	"time"

	"github.com/keymint/keymint/storage"
)

// fakeClock is a mutable time source so expiry can be simulated without
// sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:    time.Hour,
			RefreshTTL:   24 * time.Hour,
			SecretLength: 32,
		},
	}
}

func newTestManager(t *testing.T) (*Manager, *storage.Memory, *fakeClock) {
	t.Helper()

	store := storage.NewMemory()
	clock := newFakeClock()

	manager, err := New().
		WithConfig(testConfig()).
		WithStorage(store).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("build manager failed: %v", err)
	}
	t.Cleanup(manager.Close)

	return manager, store, clock
}
