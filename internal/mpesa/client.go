// Package mpesa defines the mobile-money provider contract: an asynchronous
// initiate followed by status polling, plus QR-keyed payment requests.
package mpesa

import (
	"context"
	"errors"
	"strings"
)

// Status of one checkout as reported by the provider.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrUnavailable wraps any provider transport failure.
var ErrUnavailable = errors.New("mpesa: provider unavailable")

// Checkout is the handle returned by Initiate; callers poll CheckStatus with it.
type Checkout struct {
	CheckoutID string `json:"checkout_id"`
}

// QRCode is a QR-keyed payment request. The image is a PNG.
type QRCode struct {
	RequestID string `json:"request_id"`
	Image     []byte `json:"image"`
}

// Client is the provider interface. Real deployments talk to the Daraja API;
// development and tests use the Simulator.
type Client interface {
	Initiate(ctx context.Context, phone string, amount float64, txnID string) (Checkout, error)
	CheckStatus(ctx context.Context, checkoutID string) (Status, error)
	GenerateQR(ctx context.Context, amount float64, txnID, reference string) (QRCode, error)
}

// ParseStatus normalizes provider status strings. Anything terminal that is
// not completed (including provider-side cancellation) maps to failed.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "success":
		return StatusCompleted
	case "pending", "processing", "":
		return StatusPending
	default:
		return StatusFailed
	}
}
