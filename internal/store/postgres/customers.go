package postgres

import (
	"context"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

const customerColumns = `
	id, name, COALESCE(phone, ''), COALESCE(email, ''), loyalty_points, created_at, updated_at
`

func scanCustomer(row interface{ Scan(...any) error }, c *models.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt)
}

// CreateCustomer inserts a customer with a zero loyalty balance.
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	const query = `
		INSERT INTO customers (name, phone, email, loyalty_points, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		RETURNING id, loyalty_points, created_at, updated_at
	`
	return s.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.Email).
		Scan(&c.ID, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt)
}

// GetCustomer fetches one customer.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	var c models.Customer
	if err := scanCustomer(s.db.QueryRowContext(ctx, query, id), &c); err != nil {
		return nil, mapNoRows(err)
	}
	return &c, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer rewrites contact fields. Loyalty points move only through
// AddLoyaltyPoints.
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	const query = `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Phone, c.Email)
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

// DeleteCustomer removes a customer row.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	const query = `DELETE FROM customers WHERE id = $1`
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

// AddLoyaltyPoints accrues points atomically.
func (s *Store) AddLoyaltyPoints(ctx context.Context, customerID int64, points int) error {
	const query = `
		UPDATE customers
		SET loyalty_points = loyalty_points + $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, customerID, points)
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
