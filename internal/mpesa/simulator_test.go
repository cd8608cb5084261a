package mpesa

import (
	"context"
	"testing"
)

func TestSimulatorCompletesAfterConfiguredPolls(t *testing.T) {
	sim := NewSimulator()
	sim.CompleteAfter = 2

	co, err := sim.Initiate(context.Background(), "254700111222", 500, "txn-1")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	for i := 0; i < 2; i++ {
		status, err := sim.CheckStatus(context.Background(), co.CheckoutID)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if status != StatusPending {
			t.Fatalf("check %d: expected pending, got %s", i, status)
		}
	}

	status, err := sim.CheckStatus(context.Background(), co.CheckoutID)
	if err != nil {
		t.Fatalf("final check: %v", err)
	}
	if status != StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
}

func TestSimulatorFailsMarkedPhones(t *testing.T) {
	sim := NewSimulator()

	co, err := sim.Initiate(context.Background(), "254700110000", 500, "txn-2")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	status, err := sim.CheckStatus(context.Background(), co.CheckoutID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status != StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}
}

func TestSimulatorQRUsesSamePollingProtocol(t *testing.T) {
	sim := NewSimulator()
	sim.CompleteAfter = 0

	qr, err := sim.GenerateQR(context.Background(), 300, "txn-3", "station-7")
	if err != nil {
		t.Fatalf("generate qr: %v", err)
	}
	if qr.RequestID == "" || len(qr.Image) == 0 {
		t.Fatalf("expected request id and png image")
	}

	status, err := sim.CheckStatus(context.Background(), qr.RequestID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status != StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
}

func TestParseStatusMapsCancelledToFailed(t *testing.T) {
	cases := map[string]Status{
		"completed":  StatusCompleted,
		"Success":    StatusCompleted,
		"pending":    StatusPending,
		"processing": StatusPending,
		"":           StatusPending,
		"cancelled":  StatusFailed,
		"failed":     StatusFailed,
		"timeout":    StatusFailed,
	}
	for raw, want := range cases {
		if got := ParseStatus(raw); got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}
