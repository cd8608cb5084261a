package logging

import (
	"fmt"
	"testing"
	"time"
)

func TestRingKeepsOrderBelowCapacity(t *testing.T) {
	ring := NewRing(5)
	for i := 0; i < 3; i++ {
		ring.Append(Entry{Message: fmt.Sprintf("m%d", i), Time: time.Now()})
	}

	got := ring.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, e := range got {
		if e.Message != fmt.Sprintf("m%d", i) {
			t.Fatalf("entry %d out of order: %s", i, e.Message)
		}
	}
}

func TestRingEvictsOldestAtCapacity(t *testing.T) {
	ring := NewRing(4)
	for i := 0; i < 10; i++ {
		ring.Append(Entry{Message: fmt.Sprintf("m%d", i)})
	}

	if ring.Len() != 4 {
		t.Fatalf("expected ring to hold 4 entries, got %d", ring.Len())
	}

	got := ring.Snapshot()
	want := []string{"m6", "m7", "m8", "m9"}
	for i, e := range got {
		if e.Message != want[i] {
			t.Fatalf("entry %d: want %s, got %s", i, want[i], e.Message)
		}
	}
}

func TestRingDefaultCapacity(t *testing.T) {
	ring := NewRing(0)
	for i := 0; i < DefaultRingCapacity+5; i++ {
		ring.Append(Entry{Message: "x"})
	}
	if ring.Len() != DefaultRingCapacity {
		t.Fatalf("expected %d entries, got %d", DefaultRingCapacity, ring.Len())
	}
}
