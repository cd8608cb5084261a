package models

import "time"

// Game is a catalog entry. PricePerGame, when set, overrides the station's
// per-game rate for fixed sessions.
type Game struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Genre        string    `db:"genre" json:"genre,omitempty"`
	PricePerGame *float64  `db:"price_per_game" json:"price_per_game,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
