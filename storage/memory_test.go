package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testRecord(kind Kind) *Record {
	return &Record{
		UserID:    "user-1",
		Scopes:    []string{"read"},
		Kind:      kind,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "k1", testRecord(KindAccess)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	record, ok, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected record to exist")
	}
	if record.UserID != "user-1" || record.Kind != KindAccess {
		t.Fatalf("unexpected record: %+v", record)
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k1"); ok {
		t.Fatal("record should be gone after delete")
	}
}

func TestMemoryGetAbsent(t *testing.T) {
	record, ok, err := NewMemory().Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent get must not error: %v", err)
	}
	if ok || record != nil {
		t.Fatalf("expected (nil, false), got (%+v, %v)", record, ok)
	}
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	store := NewMemory()
	for i := 0; i < 3; i++ {
		if err := store.Delete(context.Background(), "missing"); err != nil {
			t.Fatalf("delete of missing key must be a no-op, got: %v", err)
		}
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "k1", testRecord(KindAccess)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	first, _, _ := store.Get(ctx, "k1")
	first.UserID = "tampered"
	first.Scopes[0] = "tampered"

	second, _, _ := store.Get(ctx, "k1")
	if second.UserID != "user-1" || second.Scopes[0] != "read" {
		t.Fatalf("stored record was mutated through a returned copy: %+v", second)
	}
}

func TestMemorySetStoresCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	in := testRecord(KindRefresh)
	if err := store.Set(ctx, "k1", in); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	in.UserID = "tampered"
	in.Scopes[0] = "tampered"

	out, _, _ := store.Get(ctx, "k1")
	if out.UserID != "user-1" || out.Scopes[0] != "read" {
		t.Fatalf("stored record aliases caller state: %+v", out)
	}
}

func TestMemoryConsumeSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "k1", testRecord(KindRefresh)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	const n = 32
	var (
		wg      sync.WaitGroup
		winners atomic.Int64
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, ok, err := store.Consume(ctx, "k1")
			if err != nil {
				t.Errorf("consume failed: %v", err)
				return
			}
			if ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Fatalf("expected exactly one consume winner, got %d", got)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", store.Len())
	}
}

func TestMemoryClearAndLen(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, key, testRecord(KindAccess)); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", store.Len())
	}

	store.Clear()
	if store.Len() != 0 {
		t.Fatalf("expected empty store after clear, got %d", store.Len())
	}
}
