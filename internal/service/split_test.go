package service

import (
	"errors"
	"math"
	"testing"
)

func partAmounts(p *SplitPlan) []float64 {
	out := make([]float64, len(p.Parts))
	for i, part := range p.Parts {
		out[i] = part.Amount
	}
	return out
}

func sumParts(p *SplitPlan) float64 {
	var sum float64
	for _, part := range p.Parts {
		sum += part.Amount
	}
	return sum
}

func TestNewSplitPlanEvenParts(t *testing.T) {
	plan, err := NewSplitPlan(900, 3)
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}
	for i, amount := range partAmounts(plan) {
		if amount != 300 {
			t.Fatalf("part %d: expected 300, got %.2f", i, amount)
		}
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestSplitRoundingResidueGoesToLastPart(t *testing.T) {
	plan, err := NewSplitPlan(100, 3)
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}
	amounts := partAmounts(plan)
	if amounts[0] != 33.33 || amounts[1] != 33.33 {
		t.Fatalf("expected 33.33 shares, got %v", amounts)
	}
	if amounts[2] != 33.34 {
		t.Fatalf("expected last part to absorb residue, got %.2f", amounts[2])
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPaidPartsFrozenDuringRedistribution(t *testing.T) {
	plan, err := NewSplitPlan(900, 3)
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}

	if _, err := plan.MarkPaid(1); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// Remaining unpaid total is 600 across parts 0 and 2.
	if err := plan.RemovePart(2); err != nil {
		t.Fatalf("remove part: %v", err)
	}

	amounts := partAmounts(plan)
	if len(amounts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(amounts))
	}
	if amounts[0] != 600 {
		t.Fatalf("expected remaining unpaid part to carry 600, got %.2f", amounts[0])
	}
	if amounts[1] != 300 || !plan.Parts[1].Paid {
		t.Fatalf("paid part must stay 300/paid, got %.2f paid=%t", amounts[1], plan.Parts[1].Paid)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRemovePaidPartRejected(t *testing.T) {
	plan, _ := NewSplitPlan(400, 2)
	if _, err := plan.MarkPaid(0); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := plan.RemovePart(0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error removing a paid part, got %v", err)
	}
}

func TestAddPartRedistributesUnpaidOnly(t *testing.T) {
	plan, _ := NewSplitPlan(600, 2)
	if _, err := plan.MarkPaid(0); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	plan.AddPart()

	amounts := partAmounts(plan)
	if amounts[0] != 300 {
		t.Fatalf("paid part changed: %.2f", amounts[0])
	}
	if amounts[1] != 150 || amounts[2] != 150 {
		t.Fatalf("expected unpaid remainder split 150/150, got %v", amounts[1:])
	}
}

func TestValidateDetectsImbalance(t *testing.T) {
	plan, _ := NewSplitPlan(900, 3)
	plan.Parts[0].Amount = 250 // manual edit breaks the invariant

	if err := plan.Validate(); !errors.Is(err, ErrSplitImbalance) {
		t.Fatalf("expected ErrSplitImbalance, got %v", err)
	}
}

func TestValidateToleratesSubCentDrift(t *testing.T) {
	plan, _ := NewSplitPlan(100, 7)
	if err := plan.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if math.Abs(sumParts(plan)-100) > splitTolerance {
		t.Fatalf("parts sum %.4f drifted beyond tolerance", sumParts(plan))
	}
}

func TestMarkPaidReportsCompletion(t *testing.T) {
	plan, _ := NewSplitPlan(500, 2)

	done, err := plan.MarkPaid(0)
	if err != nil || done {
		t.Fatalf("first part: done=%t err=%v", done, err)
	}
	done, err = plan.MarkPaid(1)
	if err != nil || !done {
		t.Fatalf("last part: done=%t err=%v", done, err)
	}
	if _, err := plan.MarkPaid(1); !errors.Is(err, ErrPartAlreadyPaid) {
		t.Fatalf("expected ErrPartAlreadyPaid, got %v", err)
	}
}
