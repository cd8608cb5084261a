package models

import "time"

// Payment methods.
const (
	PaymentCash    = "cash"
	PaymentMpesa   = "mpesa"
	PaymentPending = "pending"
)

// Payment statuses. A completed payment is never revised.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment records one settlement against a session (or an ad-hoc charge when
// SessionID is nil). Split settlements produce multiple rows per session.
type Payment struct {
	ID         int64     `db:"id" json:"id"`
	SessionID  *int64    `db:"session_id" json:"session_id,omitempty"`
	CustomerID *int64    `db:"customer_id" json:"customer_id,omitempty"`
	Amount     float64   `db:"amount" json:"amount"`
	Method     string    `db:"method" json:"method"`
	Status     string    `db:"status" json:"status"`
	Reference  string    `db:"reference" json:"reference,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
