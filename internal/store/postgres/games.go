package postgres

import (
	"context"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

const gameColumns = `id, name, COALESCE(genre, ''), price_per_game, created_at, updated_at`

func scanGame(row interface{ Scan(...any) error }, g *models.Game) error {
	return row.Scan(&g.ID, &g.Name, &g.Genre, &g.PricePerGame, &g.CreatedAt, &g.UpdatedAt)
}

// CreateGame inserts a catalog entry.
func (s *Store) CreateGame(ctx context.Context, g *models.Game) error {
	const query = `
		INSERT INTO games (name, genre, price_per_game, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return s.db.QueryRowContext(ctx, query, g.Name, g.Genre, g.PricePerGame).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// GetGame fetches one game.
func (s *Store) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	var g models.Game
	if err := scanGame(s.db.QueryRowContext(ctx, query, id), &g); err != nil {
		return nil, mapNoRows(err)
	}
	return &g, nil
}

// ListGames returns the catalog ordered by name.
func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// UpdateGame rewrites a catalog entry.
func (s *Store) UpdateGame(ctx context.Context, g *models.Game) error {
	const query = `
		UPDATE games
		SET name = $2, genre = $3, price_per_game = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, g.ID, g.Name, g.Genre, g.PricePerGame)
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

// DeleteGame removes a catalog entry.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	const query = `DELETE FROM games WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
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
