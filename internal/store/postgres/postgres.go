// Package postgres implements store.Store on top of database/sql with the
// pgx stdlib driver.
package postgres

import (
	"database/sql"
	"errors"

	"loungepos/internal/store"
)

// Store wraps the SQL pool.
type Store struct {
	db *sql.DB
}

// New returns a Postgres-backed store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
