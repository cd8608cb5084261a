package mpesa

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Simulator is a deterministic in-process provider. A checkout reports
// pending until it has been polled CompleteAfter times, then completed.
// Phone numbers ending in "0000" fail immediately, which gives dev
// environments a reproducible failure path.
type Simulator struct {
	mu        sync.Mutex
	checkouts map[string]*simCheckout

	// CompleteAfter is how many CheckStatus calls a checkout stays pending.
	CompleteAfter int
}

type simCheckout struct {
	polls  int
	failed bool
}

// NewSimulator builds a simulator that completes on the second poll.
func NewSimulator() *Simulator {
	return &Simulator{
		checkouts:     make(map[string]*simCheckout),
		CompleteAfter: 1,
	}
}

// Initiate registers a checkout and returns its handle.
func (s *Simulator) Initiate(_ context.Context, phone string, amount float64, txnID string) (Checkout, error) {
	if strings.TrimSpace(phone) == "" || amount <= 0 {
		return Checkout{}, fmt.Errorf("%w: invalid phone or amount", ErrUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.checkouts[id] = &simCheckout{failed: strings.HasSuffix(phone, "0000")}
	return Checkout{CheckoutID: id}, nil
}

// CheckStatus advances the simulated checkout one poll.
func (s *Simulator) CheckStatus(_ context.Context, checkoutID string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	co, ok := s.checkouts[checkoutID]
	if !ok {
		return StatusFailed, fmt.Errorf("%w: unknown checkout %s", ErrUnavailable, checkoutID)
	}
	if co.failed {
		return StatusFailed, nil
	}
	co.polls++
	if co.polls > s.CompleteAfter {
		return StatusCompleted, nil
	}
	return StatusPending, nil
}

// GenerateQR renders a payment QR and registers its request id as a checkout
// so the same polling protocol applies.
func (s *Simulator) GenerateQR(_ context.Context, amount float64, txnID, reference string) (QRCode, error) {
	if amount <= 0 {
		return QRCode{}, fmt.Errorf("%w: invalid amount", ErrUnavailable)
	}

	requestID := uuid.NewString()
	payload := fmt.Sprintf("LOUNGEPOS|%s|%s|%.2f", requestID, txnID, amount)
	if reference != "" {
		payload += "|" + reference
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return QRCode{}, fmt.Errorf("%w: qr encode: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	s.checkouts[requestID] = &simCheckout{}
	s.mu.Unlock()

	return QRCode{RequestID: requestID, Image: png}, nil
}
