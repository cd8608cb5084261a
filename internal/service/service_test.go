package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/store/memory"
)

// eventRecorder captures broadcasts so tests can assert on fan-out without a
// websocket hub.
type eventRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *eventRecorder) Broadcast(event notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *eventRecorder) has(eventType string) bool {
	for _, t := range r.types() {
		if t == eventType {
			return true
		}
	}
	return false
}

func seedStation(t *testing.T, st *memory.Store, rate float64) *models.Station {
	t.Helper()
	station := &models.Station{Name: "PS5 Bay 1", StationType: "console", RatePerHour: rate}
	if err := st.CreateStation(context.Background(), station); err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return station
}

func seedCustomer(t *testing.T, st *memory.Store) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: "Wanjiku", Phone: "254700111222"}
	if err := st.CreateCustomer(context.Background(), customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func seedGame(t *testing.T, st *memory.Store, price *float64) *models.Game {
	t.Helper()
	game := &models.Game{Name: "FC 25", Genre: "sports", PricePerGame: price}
	if err := st.CreateGame(context.Background(), game); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return game
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func floatPtr(v float64) *float64 { return &v }

var testLogger = zap.NewNop()
