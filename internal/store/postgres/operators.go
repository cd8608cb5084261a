package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

// CreateOperator inserts a staff account.
func (s *Store) CreateOperator(ctx context.Context, op *models.Operator) error {
	op.Email = strings.ToLower(strings.TrimSpace(op.Email))
	const query = `
		INSERT INTO operators (email, password_hash, role, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, op.Email, op.PasswordHash, op.Role).
		Scan(&op.ID, &op.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}

// GetOperatorByEmail fetches an account by email.
func (s *Store) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	const query = `
		SELECT id, email, password_hash, role, created_at
		FROM operators
		WHERE email = $1
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	var op models.Operator
	if err := row.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return &op, nil
}
