package postgres

import (
	"context"
	"time"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

const sessionColumns = `
	id, station_id, customer_id, game_id, session_type, status,
	start_time, end_time, duration_minutes, planned_minutes, total_amount,
	created_at, updated_at
`

func scanSession(row interface{ Scan(...any) error }, sess *models.Session) error {
	return row.Scan(
		&sess.ID,
		&sess.StationID,
		&sess.CustomerID,
		&sess.GameID,
		&sess.SessionType,
		&sess.Status,
		&sess.StartTime,
		&sess.EndTime,
		&sess.DurationMinutes,
		&sess.PlannedMinutes,
		&sess.TotalAmount,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
}

// CreateSession inserts a new active session.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	const query = `
		INSERT INTO sessions (station_id, customer_id, game_id, session_type, status, start_time, planned_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return s.db.QueryRowContext(ctx, query,
		sess.StationID,
		sess.CustomerID,
		sess.GameID,
		sess.SessionType,
		sess.Status,
		sess.StartTime,
		sess.PlannedMinutes,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

// GetSession fetches one session.
func (s *Store) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	var sess models.Session
	if err := scanSession(s.db.QueryRowContext(ctx, query, id), &sess); err != nil {
		return nil, mapNoRows(err)
	}
	return &sess, nil
}

// CompleteSession finalizes a session. The active-status guard makes the
// close idempotency-safe: a second close finds zero rows.
func (s *Store) CompleteSession(ctx context.Context, id int64, endTime time.Time, durationMinutes int, totalAmount float64) error {
	const query = `
		UPDATE sessions
		SET end_time = $2,
		    duration_minutes = $3,
		    total_amount = $4,
		    status = $5,
		    updated_at = NOW()
		WHERE id = $1 AND status = $6
	`
	result, err := s.db.ExecContext(ctx, query, id, endTime, durationMinutes, totalAmount, models.SessionCompleted, models.SessionActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return err
		}
		return store.ErrSessionNotActive
	}
	return nil
}

// GetActiveSessionByStation returns the single active session on a station.
func (s *Store) GetActiveSessionByStation(ctx context.Context, stationID int64) (*models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE station_id = $1 AND status = $2
		LIMIT 1
	`
	var sess models.Session
	if err := scanSession(s.db.QueryRowContext(ctx, query, stationID, models.SessionActive), &sess); err != nil {
		return nil, mapNoRows(err)
	}
	return &sess, nil
}

// ListActiveSessions returns currently running sessions.
func (s *Store) ListActiveSessions(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE status = $1
		ORDER BY start_time DESC
		LIMIT $2
	`
	return s.querySessions(ctx, query, models.SessionActive, limit)
}

// ListSessionsByCustomer returns the last N sessions of one customer.
func (s *Store) ListSessionsByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE customer_id = $1
		ORDER BY start_time DESC
		LIMIT $2
	`
	return s.querySessions(ctx, query, customerID, limit)
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var sess models.Session
		if err := scanSession(rows, &sess); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
