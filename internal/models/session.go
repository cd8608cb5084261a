package models

import "time"

// Session statuses. Completed and cancelled are terminal.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Session billing types.
const (
	SessionHourly = "hourly"
	SessionFixed  = "fixed"
)

// Session is one customer's occupancy of a station. EndTime, Duration and
// TotalAmount are written exactly once, when the session closes.
type Session struct {
	ID              int64      `db:"id" json:"id"`
	StationID       int64      `db:"station_id" json:"station_id"`
	CustomerID      int64      `db:"customer_id" json:"customer_id"`
	GameID          *int64     `db:"game_id" json:"game_id,omitempty"`
	SessionType     string     `db:"session_type" json:"session_type"`
	Status          string     `db:"status" json:"status"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`
	PlannedMinutes  *int       `db:"planned_minutes" json:"planned_minutes,omitempty"`
	TotalAmount     *float64   `db:"total_amount" json:"total_amount,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
