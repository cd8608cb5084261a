package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/mpesa"
	"loungepos/internal/notify"
	"loungepos/internal/store"
)

// Mobile-money confirmation polling bounds. After the attempts run out the
// payment stays pending and is left for manual reconciliation.
const (
	defaultPollAttempts = 5
	defaultPollInterval = 5 * time.Second
)

// loyaltyUnit is how much spend earns one loyalty point.
const loyaltyUnit = 100.0

// PaymentsService settles charges in full or in split parts, drives the
// mobile-money confirmation protocol and accrues loyalty points.
type PaymentsService struct {
	store    store.Store
	notifier Notifier
	provider mpesa.Client
	logger   *zap.Logger

	pollAttempts int
	pollInterval time.Duration
	sleep        func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	plans map[string]*SplitPlan
}

// NewPaymentsService builds service.
func NewPaymentsService(st store.Store, notifier Notifier, provider mpesa.Client, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		store:        st,
		notifier:     notifier,
		provider:     provider,
		logger:       logger,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
		sleep:        sleepCtx,
		plans:        make(map[string]*SplitPlan),
	}
}

// WithPolling overrides the confirmation polling bounds.
func (p *PaymentsService) WithPolling(interval time.Duration, attempts int) *PaymentsService {
	if interval > 0 {
		p.pollInterval = interval
	}
	if attempts > 0 {
		p.pollAttempts = attempts
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SettleFull completes the session's pending payment (creating the row first
// when none exists) and accrues loyalty points for the paying customer.
func (p *PaymentsService) SettleFull(ctx context.Context, sessionID int64, method string, amount float64, customerID *int64) (*models.Payment, error) {
	if method != models.PaymentCash && method != models.PaymentMpesa {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, method)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	session, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, err)
	}
	if session.TotalAmount != nil {
		paid, err := p.store.SumCompletedBySession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if paid >= *session.TotalAmount {
			return nil, fmt.Errorf("%w: session %d is already fully paid", ErrValidation, sessionID)
		}
	}
	if customerID != nil {
		if _, err := p.store.GetCustomer(ctx, *customerID); err != nil {
			return nil, fmt.Errorf("customer %d: %w", *customerID, err)
		}
	}

	payment, err := p.store.GetPendingPaymentBySession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		payment = &models.Payment{
			SessionID:  &sessionID,
			CustomerID: customerID,
			Amount:     amount,
			Method:     method,
			Status:     models.PaymentStatusPending,
			Reference:  uuid.NewString(),
		}
		if err := p.store.CreatePayment(ctx, payment); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if payment.Reference == "" {
		payment.Reference = uuid.NewString()
	}
	if err := p.store.CompletePayment(ctx, payment.ID, method, payment.Reference); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted
	payment.Method = method

	p.accrueLoyalty(ctx, customerID, amount)

	p.logger.Info("payment completed",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("session_id", sessionID),
		zap.String("method", method),
		zap.Float64("amount", amount),
	)
	p.notifier.Broadcast(notify.Event{Type: notify.EventPaymentCompleted, Data: payment})
	return payment, nil
}

// accrueLoyalty adds floor(amount/loyaltyUnit) points. Accrual failure after
// a completed payment is logged, not surfaced; the payment already settled.
func (p *PaymentsService) accrueLoyalty(ctx context.Context, customerID *int64, amount float64) {
	if customerID == nil {
		return
	}
	points := int(amount / loyaltyUnit)
	if points <= 0 {
		return
	}
	if err := p.store.AddLoyaltyPoints(ctx, *customerID, points); err != nil {
		p.logger.Warn("failed to accrue loyalty points",
			zap.Int64("customer_id", *customerID),
			zap.Int("points", points),
			zap.Error(err),
		)
	}
}

// CreateSplit registers a plan dividing totalAmount into partCount equal
// parts, optionally tied to a session.
func (p *PaymentsService) CreateSplit(totalAmount float64, partCount int, sessionID *int64) (*SplitPlan, error) {
	plan, err := NewSplitPlan(totalAmount, partCount)
	if err != nil {
		return nil, err
	}
	plan.ID = uuid.NewString()
	plan.SessionID = sessionID

	p.mu.Lock()
	p.plans[plan.ID] = plan
	p.mu.Unlock()
	return plan, nil
}

// GetSplit returns a plan by id.
func (p *PaymentsService) GetSplit(planID string) (*SplitPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, ok := p.plans[planID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return plan, nil
}

// AddSplitPart appends an unpaid part to a plan.
func (p *PaymentsService) AddSplitPart(planID string) (*SplitPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, ok := p.plans[planID]
	if !ok {
		return nil, store.ErrNotFound
	}
	plan.AddPart()
	return plan, nil
}

// RemoveSplitPart drops an unpaid part from a plan.
func (p *PaymentsService) RemoveSplitPart(planID string, index int) (*SplitPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, ok := p.plans[planID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := plan.RemovePart(index); err != nil {
		return nil, err
	}
	return plan, nil
}

// PaySplitPart settles one part of a plan as an independent payment row.
// The plan invariant is enforced first: an imbalanced plan blocks payment.
// Paying the final part fires onSettled once with the plan.
func (p *PaymentsService) PaySplitPart(ctx context.Context, planID string, index int, method string, customerID *int64, onSettled func(*SplitPlan)) (*models.Payment, error) {
	if method != models.PaymentCash && method != models.PaymentMpesa {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, method)
	}

	p.mu.Lock()
	plan, ok := p.plans[planID]
	if !ok {
		p.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if err := plan.Validate(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if index < 0 || index >= len(plan.Parts) {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: split part %d out of range", ErrValidation, index)
	}
	if plan.Parts[index].Paid {
		p.mu.Unlock()
		return nil, ErrPartAlreadyPaid
	}
	amount := plan.Parts[index].Amount
	sessionID := plan.SessionID
	p.mu.Unlock()

	payment := &models.Payment{
		SessionID:  sessionID,
		CustomerID: customerID,
		Amount:     amount,
		Method:     method,
		Status:     models.PaymentStatusPending,
		Reference:  uuid.NewString(),
	}
	if err := p.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	if err := p.store.CompletePayment(ctx, payment.ID, method, payment.Reference); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted

	p.accrueLoyalty(ctx, customerID, amount)

	p.mu.Lock()
	done, err := plan.MarkPaid(index)
	p.mu.Unlock()
	if err != nil {
		// The payment row already settled; report the inconsistency loudly.
		p.logger.Error("split part state conflict after settlement", zap.String("plan_id", planID), zap.Int("part", index), zap.Error(err))
		return payment, err
	}

	p.notifier.Broadcast(notify.Event{Type: notify.EventPaymentCompleted, Data: payment})

	if done {
		p.logger.Info("split plan fully settled", zap.String("plan_id", planID), zap.Float64("total", plan.Total))
		if onSettled != nil {
			onSettled(plan)
		}
	}
	return payment, nil
}

// InitiateMpesa starts an STK-push checkout with the provider. Nothing is
// persisted until confirmation, so failures here are safe to retry.
func (p *PaymentsService) InitiateMpesa(ctx context.Context, phone string, amount float64) (mpesa.Checkout, error) {
	if amount <= 0 {
		return mpesa.Checkout{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	checkout, err := p.provider.Initiate(ctx, phone, amount, uuid.NewString())
	if err != nil {
		return mpesa.Checkout{}, fmt.Errorf("%w: %v", mpesa.ErrUnavailable, err)
	}
	return checkout, nil
}

// GenerateMpesaQR produces a QR-keyed payment request following the same
// confirmation protocol as STK push.
func (p *PaymentsService) GenerateMpesaQR(ctx context.Context, amount float64, reference string) (mpesa.QRCode, error) {
	if amount <= 0 {
		return mpesa.QRCode{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	qr, err := p.provider.GenerateQR(ctx, amount, uuid.NewString(), reference)
	if err != nil {
		return mpesa.QRCode{}, fmt.Errorf("%w: %v", mpesa.ErrUnavailable, err)
	}
	return qr, nil
}

// CollectMpesa runs the full mobile-money flow against a session: initiate,
// poll for confirmation, then settle the session's pending payment on
// completed or fail it on an explicit provider failure. Exhausted polling
// leaves the payment pending for manual reconciliation.
func (p *PaymentsService) CollectMpesa(ctx context.Context, sessionID int64, phone string, amount float64, customerID *int64) (mpesa.Checkout, mpesa.Status, *models.Payment, error) {
	checkout, err := p.InitiateMpesa(ctx, phone, amount)
	if err != nil {
		return mpesa.Checkout{}, "", nil, err
	}

	status, err := p.ConfirmMpesa(ctx, checkout.CheckoutID)
	if err != nil {
		return checkout, mpesa.StatusPending, nil, err
	}

	switch status {
	case mpesa.StatusCompleted:
		payment, err := p.SettleFull(ctx, sessionID, models.PaymentMpesa, amount, customerID)
		if err != nil {
			return checkout, status, nil, err
		}
		return checkout, status, payment, nil
	case mpesa.StatusFailed:
		pending, err := p.store.GetPendingPaymentBySession(ctx, sessionID)
		if err == nil {
			if failErr := p.store.FailPayment(ctx, pending.ID, checkout.CheckoutID); failErr != nil {
				p.logger.Warn("failed to mark payment failed", zap.Int64("payment_id", pending.ID), zap.Error(failErr))
			} else {
				pending.Status = models.PaymentStatusFailed
				pending.Reference = checkout.CheckoutID
			}
			return checkout, status, pending, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return checkout, status, nil, err
		}
		return checkout, status, nil, nil
	default:
		return checkout, status, nil, nil
	}
}

// ConfirmMpesa polls the provider up to the configured attempt bound. Only an
// explicit completed status from the provider is treated as success; when the
// bound runs out the result is pending and the caller must reconcile
// manually.
func (p *PaymentsService) ConfirmMpesa(ctx context.Context, checkoutID string) (mpesa.Status, error) {
	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.pollInterval); err != nil {
				return mpesa.StatusPending, err
			}
		}

		status, err := p.provider.CheckStatus(ctx, checkoutID)
		if err != nil {
			p.logger.Warn("mpesa status check failed", zap.String("checkout_id", checkoutID), zap.Error(err))
			continue
		}
		if status == mpesa.StatusCompleted || status == mpesa.StatusFailed {
			return status, nil
		}
	}

	p.logger.Info("mpesa confirmation exhausted, leaving payment for manual reconciliation",
		zap.String("checkout_id", checkoutID),
		zap.Int("attempts", p.pollAttempts),
	)
	return mpesa.StatusPending, nil
}
