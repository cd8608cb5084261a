package models

import "time"

// RevenuePoint is one day of revenue within a reporting range.
type RevenuePoint struct {
	Date    time.Time `db:"stat_date" json:"date"`
	Revenue float64   `db:"total_revenue" json:"revenue"`
}

// MethodBreakdown aggregates completed payments by method.
type MethodBreakdown struct {
	Method string  `db:"method" json:"method"`
	Count  int     `db:"count" json:"count"`
	Total  float64 `db:"total" json:"total"`
}

// GamePerformance aggregates completed sessions per game.
type GamePerformance struct {
	GameID   int64   `db:"game_id" json:"game_id"`
	GameName string  `db:"game_name" json:"game_name"`
	Sessions int     `db:"sessions" json:"sessions"`
	Revenue  float64 `db:"revenue" json:"revenue"`
}

// LoyaltySegment buckets customers by accrued points.
type LoyaltySegment struct {
	Segment   string `json:"segment"`
	Customers int    `json:"customers"`
	MinPoints int    `json:"min_points"`
}
