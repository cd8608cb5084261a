package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/store"
)

// StationsService owns station identity, rate cards and status transitions
// that are not driven by sessions.
type StationsService struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewStationsService builds service.
func NewStationsService(st store.Store, notifier Notifier, logger *zap.Logger) *StationsService {
	return &StationsService{store: st, notifier: notifier, logger: logger}
}

// CreateStationInput carries operator-provided station attributes.
type CreateStationInput struct {
	Name        string
	StationType string
	RatePerHour float64
	RatePerGame *float64
}

// Create registers a new station in available status.
func (s *StationsService) Create(ctx context.Context, input CreateStationInput) (*models.Station, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.StationType = strings.TrimSpace(input.StationType)
	if input.Name == "" || input.StationType == "" {
		return nil, fmt.Errorf("%w: station name and type are required", ErrValidation)
	}
	if input.RatePerHour < 0 {
		return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrValidation)
	}
	if input.RatePerGame != nil && *input.RatePerGame < 0 {
		return nil, fmt.Errorf("%w: per-game rate cannot be negative", ErrValidation)
	}

	station := &models.Station{
		Name:        input.Name,
		StationType: input.StationType,
		RatePerHour: input.RatePerHour,
		RatePerGame: input.RatePerGame,
	}
	if err := s.store.CreateStation(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("station created", zap.Int64("station_id", station.ID), zap.String("type", station.StationType))
	s.notifier.Broadcast(notify.Event{Type: notify.EventStationCreated, Data: station})
	return station, nil
}

// List returns all stations.
func (s *StationsService) List(ctx context.Context) ([]models.Station, error) {
	return s.store.ListStations(ctx)
}

// Get returns one station.
func (s *StationsService) Get(ctx context.Context, id int64) (*models.Station, error) {
	return s.store.GetStation(ctx, id)
}

// SetMaintenance flips a station into maintenance regardless of its current
// status. An active session on the station keeps running; closing it later
// will not clobber the maintenance flag because release happens before the
// operator typically flags the rig.
func (s *StationsService) SetMaintenance(ctx context.Context, id int64, reason string, eta *time.Time) (*models.Station, error) {
	if err := s.store.SetStationMaintenance(ctx, id, strings.TrimSpace(reason), eta); err != nil {
		return nil, err
	}

	station, err := s.store.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("station flagged for maintenance", zap.Int64("station_id", id), zap.String("reason", station.MaintenanceReason))
	s.notifier.Broadcast(notify.Event{Type: notify.EventStationMaintenance, Data: station})
	return station, nil
}

// ClearMaintenance returns a station to available.
func (s *StationsService) ClearMaintenance(ctx context.Context, id int64) (*models.Station, error) {
	if err := s.store.ClearStationMaintenance(ctx, id); err != nil {
		return nil, err
	}

	station, err := s.store.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Broadcast(notify.Event{Type: notify.EventStationUpdated, Data: station})
	return station, nil
}

// ActiveSessionID returns the id of the single active session on a station,
// or false when the station is idle.
func (s *StationsService) ActiveSessionID(ctx context.Context, stationID int64) (int64, bool, error) {
	sess, err := s.store.GetActiveSessionByStation(ctx, stationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return sess.ID, true, nil
}
