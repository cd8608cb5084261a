package models

import "time"

// DailyStat is the per-date aggregate row behind the dashboard. Counters are
// adjusted incrementally on session transitions and can be rebuilt from the
// sessions/payments tables on demand.
type DailyStat struct {
	Date           time.Time `db:"stat_date" json:"date"`
	ActiveStations int       `db:"active_stations" json:"active_stations"`
	ActiveUsers    int       `db:"active_users" json:"active_users"`
	TotalHours     float64   `db:"total_hours" json:"total_hours"`
	TotalRevenue   float64   `db:"total_revenue" json:"total_revenue"`
}

// StatDelta is a signed adjustment applied to one DailyStat row.
type StatDelta struct {
	ActiveStations int
	ActiveUsers    int
	TotalHours     float64
	TotalRevenue   float64
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
