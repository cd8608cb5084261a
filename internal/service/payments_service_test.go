package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"loungepos/internal/models"
	"loungepos/internal/mpesa"
	"loungepos/internal/notify"
	"loungepos/internal/store/memory"
)

func newPaymentsFixture(t *testing.T, provider mpesa.Client) (*PaymentsService, *memory.Store, *eventRecorder) {
	t.Helper()
	st := memory.New()
	rec := &eventRecorder{}
	svc := NewPaymentsService(st, rec, provider, testLogger)
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	return svc, st, rec
}

func endedSession(t *testing.T, st *memory.Store, customerID int64, total float64) *models.Session {
	t.Helper()
	ctx := context.Background()
	station := seedStation(t, st, 200)
	session := &models.Session{
		StationID:   station.ID,
		CustomerID:  customerID,
		SessionType: models.SessionHourly,
		Status:      models.SessionActive,
		StartTime:   time.Now().UTC().Add(-time.Hour),
	}
	if err := st.CreateSession(ctx, session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := st.CompleteSession(ctx, session.ID, time.Now().UTC(), 60, total); err != nil {
		t.Fatalf("complete session: %v", err)
	}
	return session
}

func TestSettleFullCompletesPendingPayment(t *testing.T) {
	svc, st, rec := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 250)

	pending := &models.Payment{
		SessionID: &session.ID, Amount: 250,
		Method: models.PaymentPending, Status: models.PaymentStatusPending,
	}
	if err := st.CreatePayment(ctx, pending); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	payment, err := svc.SettleFull(ctx, session.ID, models.PaymentCash, 250, &customer.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if payment.ID != pending.ID {
		t.Fatalf("expected the existing pending row to settle, got payment %d", payment.ID)
	}
	if payment.Status != models.PaymentStatusCompleted || payment.Method != models.PaymentCash {
		t.Fatalf("unexpected settled state: %s/%s", payment.Status, payment.Method)
	}

	got, err := st.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.LoyaltyPoints != 2 {
		t.Fatalf("expected 2 loyalty points for 250, got %d", got.LoyaltyPoints)
	}
	if !rec.has(notify.EventPaymentCompleted) {
		t.Fatalf("expected PAYMENT_COMPLETED broadcast, got %v", rec.types())
	}
}

func TestSettleFullCreatesRowWhenNonePending(t *testing.T) {
	svc, st, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 99)

	payment, err := svc.SettleFull(ctx, session.ID, models.PaymentMpesa, 99, &customer.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if payment.Status != models.PaymentStatusCompleted {
		t.Fatalf("expected completed, got %s", payment.Status)
	}

	got, err := st.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.LoyaltyPoints != 0 {
		t.Fatalf("99 must not earn points, got %d", got.LoyaltyPoints)
	}
}

func TestSettleFullRejectsBadInput(t *testing.T) {
	svc, st, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 100)

	if _, err := svc.SettleFull(ctx, session.ID, "barter", 100, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for method, got %v", err)
	}
	if _, err := svc.SettleFull(ctx, session.ID, models.PaymentCash, 0, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for amount, got %v", err)
	}
}

func TestPaySplitPartSettlesAndFiresCompletion(t *testing.T) {
	svc, st, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)

	plan, err := svc.CreateSplit(900, 3, nil)
	if err != nil {
		t.Fatalf("create split: %v", err)
	}

	var settled *SplitPlan
	onSettled := func(p *SplitPlan) { settled = p }

	for i := 0; i < 3; i++ {
		if _, err := svc.PaySplitPart(ctx, plan.ID, i, models.PaymentCash, &customer.ID, onSettled); err != nil {
			t.Fatalf("pay part %d: %v", i, err)
		}
		if i < 2 && settled != nil {
			t.Fatalf("completion fired early after part %d", i)
		}
	}
	if settled == nil {
		t.Fatal("completion callback never fired")
	}
	if settled.PaidAmount() != 900 {
		t.Fatalf("expected 900 settled, got %.2f", settled.PaidAmount())
	}

	// Each 300 part earns floor(300/100) points.
	got, err := st.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.LoyaltyPoints != 9 {
		t.Fatalf("expected 9 points across three parts, got %d", got.LoyaltyPoints)
	}
}

func TestPaySplitPartBlocksImbalancedPlan(t *testing.T) {
	svc, _, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()

	plan, err := svc.CreateSplit(600, 2, nil)
	if err != nil {
		t.Fatalf("create split: %v", err)
	}
	plan.Parts[0].Amount = 100 // corrupt the invariant

	if _, err := svc.PaySplitPart(ctx, plan.ID, 0, models.PaymentCash, nil, nil); !errors.Is(err, ErrSplitImbalance) {
		t.Fatalf("expected ErrSplitImbalance, got %v", err)
	}
}

func TestPaySplitPartRejectsDoublePay(t *testing.T) {
	svc, _, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()

	plan, err := svc.CreateSplit(400, 2, nil)
	if err != nil {
		t.Fatalf("create split: %v", err)
	}
	if _, err := svc.PaySplitPart(ctx, plan.ID, 0, models.PaymentCash, nil, nil); err != nil {
		t.Fatalf("first pay: %v", err)
	}
	if _, err := svc.PaySplitPart(ctx, plan.ID, 0, models.PaymentCash, nil, nil); !errors.Is(err, ErrPartAlreadyPaid) {
		t.Fatalf("expected ErrPartAlreadyPaid, got %v", err)
	}
}

func TestConfirmMpesaCompletesWithinBound(t *testing.T) {
	sim := mpesa.NewSimulator()
	sim.CompleteAfter = 2
	svc, _, _ := newPaymentsFixture(t, sim)
	ctx := context.Background()

	checkout, err := svc.InitiateMpesa(ctx, "254711222333", 500)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	status, err := svc.ConfirmMpesa(ctx, checkout.CheckoutID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if status != mpesa.StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
}

func TestConfirmMpesaStopsAtAttemptBound(t *testing.T) {
	sim := mpesa.NewSimulator()
	sim.CompleteAfter = 50 // never completes within the bound
	svc, _, _ := newPaymentsFixture(t, sim)
	ctx := context.Background()

	polls := 0
	svc.sleep = func(context.Context, time.Duration) error { polls++; return nil }

	checkout, err := svc.InitiateMpesa(ctx, "254711222333", 500)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	status, err := svc.ConfirmMpesa(ctx, checkout.CheckoutID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if status != mpesa.StatusPending {
		t.Fatalf("exhausted confirmation must stay pending, got %s", status)
	}
	if polls != defaultPollAttempts-1 {
		t.Fatalf("expected %d sleeps between %d polls, got %d", defaultPollAttempts-1, defaultPollAttempts, polls)
	}
}

func TestConfirmMpesaReportsProviderFailure(t *testing.T) {
	svc, _, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()

	checkout, err := svc.InitiateMpesa(ctx, "254711220000", 500)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	status, err := svc.ConfirmMpesa(ctx, checkout.CheckoutID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if status != mpesa.StatusFailed {
		t.Fatalf("expected failed for the reserved phone suffix, got %s", status)
	}
}

func TestCollectMpesaSettlesOnCompletion(t *testing.T) {
	sim := mpesa.NewSimulator()
	sim.CompleteAfter = 1
	svc, st, _ := newPaymentsFixture(t, sim)
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 300)

	pending := &models.Payment{
		SessionID: &session.ID, Amount: 300,
		Method: models.PaymentPending, Status: models.PaymentStatusPending,
	}
	if err := st.CreatePayment(ctx, pending); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	_, status, payment, err := svc.CollectMpesa(ctx, session.ID, "254711222333", 300, &customer.ID)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if status != mpesa.StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
	if payment == nil || payment.Status != models.PaymentStatusCompleted || payment.Method != models.PaymentMpesa {
		t.Fatalf("unexpected payment: %+v", payment)
	}

	got, err := st.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.LoyaltyPoints != 3 {
		t.Fatalf("expected 3 loyalty points, got %d", got.LoyaltyPoints)
	}
}

func TestCollectMpesaFailsPendingPaymentOnProviderFailure(t *testing.T) {
	svc, st, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 300)

	pending := &models.Payment{
		SessionID: &session.ID, Amount: 300,
		Method: models.PaymentPending, Status: models.PaymentStatusPending,
	}
	if err := st.CreatePayment(ctx, pending); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	_, status, payment, err := svc.CollectMpesa(ctx, session.ID, "254711220000", 300, &customer.ID)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if status != mpesa.StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}
	if payment == nil || payment.Status != models.PaymentStatusFailed {
		t.Fatalf("expected the pending payment to be failed, got %+v", payment)
	}

	stored, err := st.GetPayment(ctx, pending.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if stored.Status != models.PaymentStatusFailed {
		t.Fatalf("stored payment not failed: %s", stored.Status)
	}
}

func TestSettleFullRejectsFullyPaidSession(t *testing.T) {
	svc, st, _ := newPaymentsFixture(t, mpesa.NewSimulator())
	ctx := context.Background()
	customer := seedCustomer(t, st)
	session := endedSession(t, st, customer.ID, 200)

	if _, err := svc.SettleFull(ctx, session.ID, models.PaymentCash, 200, nil); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, err := svc.SettleFull(ctx, session.ID, models.PaymentCash, 200, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for fully paid session, got %v", err)
	}
}

func TestGenerateMpesaQRFollowsPollingProtocol(t *testing.T) {
	sim := mpesa.NewSimulator()
	sim.CompleteAfter = 1
	svc, _, _ := newPaymentsFixture(t, sim)
	ctx := context.Background()

	qr, err := svc.GenerateMpesaQR(ctx, 450, "table-7")
	if err != nil {
		t.Fatalf("generate qr: %v", err)
	}
	if len(qr.Image) == 0 {
		t.Fatal("expected a rendered QR image")
	}
	status, err := svc.ConfirmMpesa(ctx, qr.RequestID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if status != mpesa.StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
}
