package postgres

import (
	"context"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

const paymentColumns = `
	id, session_id, customer_id, amount, method, status,
	COALESCE(reference, ''), created_at, updated_at
`

func scanPayment(row interface{ Scan(...any) error }, p *models.Payment) error {
	return row.Scan(
		&p.ID,
		&p.SessionID,
		&p.CustomerID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.Reference,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// CreatePayment inserts a payment row.
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	const query = `
		INSERT INTO payments (session_id, customer_id, amount, method, status, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return s.db.QueryRowContext(ctx, query,
		p.SessionID,
		p.CustomerID,
		p.Amount,
		p.Method,
		p.Status,
		p.Reference,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetPayment fetches one payment.
func (s *Store) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	var p models.Payment
	if err := scanPayment(s.db.QueryRowContext(ctx, query, id), &p); err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// GetPendingPaymentBySession returns the oldest pending payment on a session.
func (s *Store) GetPendingPaymentBySession(ctx context.Context, sessionID int64) (*models.Payment, error) {
	const query = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE session_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
	`
	var p models.Payment
	if err := scanPayment(s.db.QueryRowContext(ctx, query, sessionID, models.PaymentStatusPending), &p); err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// CompletePayment transitions pending -> completed. Completed rows are final.
func (s *Store) CompletePayment(ctx context.Context, id int64, method, reference string) error {
	return s.settlePayment(ctx, id, models.PaymentStatusCompleted, method, reference)
}

// FailPayment transitions pending -> failed.
func (s *Store) FailPayment(ctx context.Context, id int64, reference string) error {
	return s.settlePayment(ctx, id, models.PaymentStatusFailed, "", reference)
}

func (s *Store) settlePayment(ctx context.Context, id int64, status, method, reference string) error {
	const query = `
		UPDATE payments
		SET status = $2,
		    method = CASE WHEN $3 = '' THEN method ELSE $3 END,
		    reference = CASE WHEN $4 = '' THEN reference ELSE $4 END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $5
	`
	result, err := s.db.ExecContext(ctx, query, id, status, method, reference, models.PaymentStatusPending)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.GetPayment(ctx, id); err != nil {
			return err
		}
		return store.ErrPaymentNotPending
	}
	return nil
}

// SumCompletedBySession totals completed payment amounts across all split
// parts of one session.
func (s *Store) SumCompletedBySession(ctx context.Context, sessionID int64) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE session_id = $1 AND status = $2
	`
	var total float64
	if err := s.db.QueryRowContext(ctx, query, sessionID, models.PaymentStatusCompleted).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
