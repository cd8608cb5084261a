package models

import "time"

// Station statuses.
const (
	StationAvailable   = "available"
	StationActive      = "active"
	StationMaintenance = "maintenance"
)

// Station is a rentable gaming rig.
type Station struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	StationType       string     `db:"station_type" json:"station_type"`
	Status            string     `db:"status" json:"status"`
	RatePerHour       float64    `db:"rate_per_hour" json:"rate_per_hour"`
	RatePerGame       *float64   `db:"rate_per_game" json:"rate_per_game,omitempty"`
	MaintenanceReason string     `db:"maintenance_reason" json:"maintenance_reason,omitempty"`
	MaintenanceETA    *time.Time `db:"maintenance_eta" json:"maintenance_eta,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
