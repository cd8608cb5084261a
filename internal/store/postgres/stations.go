package postgres

import (
	"context"
	"time"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

// CreateStation inserts a new station in available status.
func (s *Store) CreateStation(ctx context.Context, station *models.Station) error {
	const query = `
		INSERT INTO stations (name, station_type, status, rate_per_hour, rate_per_game, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	station.Status = models.StationAvailable
	return s.db.QueryRowContext(ctx, query,
		station.Name,
		station.StationType,
		station.Status,
		station.RatePerHour,
		station.RatePerGame,
	).Scan(&station.ID, &station.CreatedAt, &station.UpdatedAt)
}

const stationColumns = `
	id, name, station_type, status, rate_per_hour, rate_per_game,
	COALESCE(maintenance_reason, ''), maintenance_eta, created_at, updated_at
`

func scanStation(row interface{ Scan(...any) error }, st *models.Station) error {
	return row.Scan(
		&st.ID,
		&st.Name,
		&st.StationType,
		&st.Status,
		&st.RatePerHour,
		&st.RatePerGame,
		&st.MaintenanceReason,
		&st.MaintenanceETA,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
}

// GetStation fetches one station.
func (s *Store) GetStation(ctx context.Context, id int64) (*models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	var st models.Station
	if err := scanStation(s.db.QueryRowContext(ctx, query, id), &st); err != nil {
		return nil, mapNoRows(err)
	}
	return &st, nil
}

// ListStations returns all stations ordered by id.
func (s *Store) ListStations(ctx context.Context) ([]models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := scanStation(rows, &st); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// ClaimStation transitions available -> active in one conditional update so
// two concurrent starts cannot both claim the same station.
func (s *Store) ClaimStation(ctx context.Context, id int64) error {
	const query = `
		UPDATE stations
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	result, err := s.db.ExecContext(ctx, query, id, models.StationActive, models.StationAvailable)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.GetStation(ctx, id); err != nil {
			return err
		}
		return store.ErrStationUnavailable
	}
	return nil
}

// ReleaseStation returns a station to available after its session ends.
func (s *Store) ReleaseStation(ctx context.Context, id int64) error {
	const query = `
		UPDATE stations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, models.StationAvailable)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetStationMaintenance marks a station as under maintenance regardless of
// its current status.
func (s *Store) SetStationMaintenance(ctx context.Context, id int64, reason string, eta *time.Time) error {
	const query = `
		UPDATE stations
		SET status = $2, maintenance_reason = $3, maintenance_eta = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, models.StationMaintenance, reason, eta)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ClearStationMaintenance returns a station from maintenance to available.
func (s *Store) ClearStationMaintenance(ctx context.Context, id int64) error {
	const query = `
		UPDATE stations
		SET status = $2, maintenance_reason = NULL, maintenance_eta = NULL, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, models.StationAvailable)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
