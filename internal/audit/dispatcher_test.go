package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// blockingSink holds every emit until released, so buffer pressure can be
// created deterministically.
type blockingSink struct {
	release chan struct{}
	seen    chan Event
}

func newBlockingSink(capacity int) *blockingSink {
	return &blockingSink{
		release: make(chan struct{}),
		seen:    make(chan Event, capacity),
	}
}

func (s *blockingSink) Emit(_ context.Context, event Event) {
	<-s.release
	s.seen <- event
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &recordingSink{})
	if d != nil {
		t.Fatal("disabled config must produce a nil dispatcher")
	}

	// Nil dispatchers are safe to use.
	d.Emit(context.Background(), Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestDispatcherDeliversAndStamps(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)

	d.Emit(context.Background(), Event{EventType: "token.generate", UserID: "alice"})
	d.Close()

	if sink.len() != 1 {
		t.Fatalf("expected 1 delivered event, got %d", sink.len())
	}
	event := sink.events[0]
	if event.EventID == "" || event.Timestamp.IsZero() {
		t.Fatalf("event not stamped: %+v", event)
	}
	if event.EventType != "token.generate" || event.UserID != "alice" {
		t.Fatalf("event fields lost: %+v", event)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := newBlockingSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// The run loop blocks on the first event; the buffer holds one more.
	// Everything beyond that is dropped.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "x"})
	}

	deadline := time.After(2 * time.Second)
	for d.Dropped() < 8 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 8 dropped events, got %d", d.Dropped())
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(sink.release)
	d.Close()
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64, DropIfFull: true}, sink)

	const n = 32
	for i := 0; i < n; i++ {
		d.Emit(context.Background(), Event{EventType: "x"})
	}
	d.Close()

	if got := sink.len(); got+int(d.Dropped()) != n {
		t.Fatalf("events lost: delivered=%d dropped=%d want total=%d", got, d.Dropped(), n)
	}
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	d.Close()

	// Must not panic or block.
	d.Emit(context.Background(), Event{EventType: "x"})
}
