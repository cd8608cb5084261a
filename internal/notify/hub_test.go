package notify

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type fakeConn struct {
	mu       sync.Mutex
	events   []Event
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	if event, ok := v.(Event); ok {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b := &fakeConn{}, &fakeConn{}
	hub.add(a)
	hub.add(b)

	hub.Broadcast(Event{Type: EventSessionCreated, Data: map[string]int64{"session_id": 1}})

	if a.eventCount() != 1 || b.eventCount() != 1 {
		t.Fatalf("expected both clients to receive the event, got %d and %d", a.eventCount(), b.eventCount())
	}
}

func TestBroadcastDropsFailingClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("write: broken pipe")}
	hub.add(healthy)
	hub.add(broken)

	hub.Broadcast(Event{Type: EventStationUpdated})

	if hub.ClientCount() != 1 {
		t.Fatalf("expected broken client to be dropped, count = %d", hub.ClientCount())
	}
	if !broken.closed {
		t.Fatalf("expected broken client connection to be closed")
	}

	hub.Broadcast(Event{Type: EventStationUpdated})
	if healthy.eventCount() != 2 {
		t.Fatalf("expected healthy client to keep receiving, got %d events", healthy.eventCount())
	}
}
