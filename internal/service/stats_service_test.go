package service

import (
	"context"
	"testing"
	"time"

	"loungepos/internal/models"
	"loungepos/internal/store/memory"
)

func TestRecomputeRebuildsFromSessions(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	svc := NewStatsService(st, testLogger)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := day.Add(3 * time.Hour)
	session := &models.Session{
		StationID: 1, CustomerID: 1, SessionType: models.SessionHourly,
		Status: models.SessionActive, StartTime: day.Add(time.Hour),
	}
	if err := st.CreateSession(ctx, session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := st.CompleteSession(ctx, session.ID, end, 120, 400); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	// Drift the incremental counters, then rebuild.
	if err := st.AdjustDailyStat(ctx, day, models.StatDelta{TotalRevenue: 9999, ActiveUsers: 3}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	stat, err := svc.Recompute(ctx, day)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stat.TotalRevenue != 400 {
		t.Fatalf("expected rebuilt revenue 400, got %.2f", stat.TotalRevenue)
	}
	if stat.TotalHours != 2 {
		t.Fatalf("expected 2 hours, got %.2f", stat.TotalHours)
	}
	if stat.ActiveUsers != 0 || stat.ActiveStations != 0 {
		t.Fatalf("no active sessions remain, got %d/%d", stat.ActiveUsers, stat.ActiveStations)
	}
}

func TestAdjustFloorsAtZero(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if err := st.AdjustDailyStat(ctx, day, models.StatDelta{ActiveStations: -5, TotalRevenue: -100}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	stat, err := st.GetOrCreateDailyStat(ctx, day)
	if err != nil {
		t.Fatalf("get stat: %v", err)
	}
	if stat.ActiveStations != 0 || stat.TotalRevenue != 0 {
		t.Fatalf("counters must floor at zero, got %d/%.2f", stat.ActiveStations, stat.TotalRevenue)
	}
}

func TestLoyaltySegments(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	svc := NewStatsService(st, testLogger)

	points := []int{0, 50, 150, 700, 500, 1}
	for i, p := range points {
		customer := &models.Customer{Name: "c"}
		if err := st.CreateCustomer(ctx, customer); err != nil {
			t.Fatalf("seed customer %d: %v", i, err)
		}
		if p > 0 {
			if err := st.AddLoyaltyPoints(ctx, customer.ID, p); err != nil {
				t.Fatalf("add points: %v", err)
			}
		}
	}

	segments, err := svc.LoyaltySegments(ctx)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	want := map[string]int{"gold": 2, "silver": 1, "bronze": 2, "none": 1}
	for _, seg := range segments {
		if seg.Customers != want[seg.Segment] {
			t.Fatalf("segment %s: expected %d, got %d", seg.Segment, want[seg.Segment], seg.Customers)
		}
	}
}

func TestRevenueRangeOrdersByDate(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	svc := NewStatsService(st, testLogger)

	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	if err := st.AdjustDailyStat(ctx, d2, models.StatDelta{TotalRevenue: 800}); err != nil {
		t.Fatalf("adjust d2: %v", err)
	}
	if err := st.AdjustDailyStat(ctx, d1, models.StatDelta{TotalRevenue: 500}); err != nil {
		t.Fatalf("adjust d1: %v", err)
	}

	points, err := svc.Revenue(ctx, d1, d2)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if len(points) != 2 || points[0].Revenue != 500 || points[1].Revenue != 800 {
		t.Fatalf("unexpected revenue points: %+v", points)
	}

	if _, err := svc.Revenue(ctx, d2, d1); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
