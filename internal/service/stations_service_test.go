package service

import (
	"context"
	"errors"
	"testing"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/store/memory"
)

func newStationsFixture(t *testing.T) (*StationsService, *memory.Store, *eventRecorder) {
	t.Helper()
	st := memory.New()
	rec := &eventRecorder{}
	return NewStationsService(st, rec, testLogger), st, rec
}

func TestCreateStationStartsAvailable(t *testing.T) {
	svc, _, rec := newStationsFixture(t)

	station, err := svc.Create(context.Background(), CreateStationInput{
		Name: "  PS5 Bay 2 ", StationType: "console", RatePerHour: 250,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if station.Status != models.StationAvailable {
		t.Fatalf("expected available, got %s", station.Status)
	}
	if station.Name != "PS5 Bay 2" {
		t.Fatalf("expected trimmed name, got %q", station.Name)
	}
	if !rec.has(notify.EventStationCreated) {
		t.Fatalf("expected STATION_CREATED broadcast, got %v", rec.types())
	}
}

func TestCreateStationValidation(t *testing.T) {
	svc, _, _ := newStationsFixture(t)

	if _, err := svc.Create(context.Background(), CreateStationInput{StationType: "console"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateStationInput{
		Name: "Bay", StationType: "console", RatePerHour: -5,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative rate, got %v", err)
	}
}

func TestMaintenanceRoundTrip(t *testing.T) {
	svc, st, rec := newStationsFixture(t)
	seeded := seedStation(t, st, 200)

	station, err := svc.SetMaintenance(context.Background(), seeded.ID, "controller drift", nil)
	if err != nil {
		t.Fatalf("set maintenance: %v", err)
	}
	if station.Status != models.StationMaintenance || station.MaintenanceReason != "controller drift" {
		t.Fatalf("unexpected state: %s %q", station.Status, station.MaintenanceReason)
	}
	if !rec.has(notify.EventStationMaintenance) {
		t.Fatalf("expected STATION_MAINTENANCE broadcast, got %v", rec.types())
	}

	station, err = svc.ClearMaintenance(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("clear maintenance: %v", err)
	}
	if station.Status != models.StationAvailable || station.MaintenanceReason != "" {
		t.Fatalf("expected cleared station, got %s %q", station.Status, station.MaintenanceReason)
	}
}

func TestActiveSessionIDOnIdleStation(t *testing.T) {
	svc, st, _ := newStationsFixture(t)
	seeded := seedStation(t, st, 200)

	_, found, err := svc.ActiveSessionID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("active session id: %v", err)
	}
	if found {
		t.Fatal("idle station must report no active session")
	}
}
