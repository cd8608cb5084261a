package service

import (
	"fmt"
	"math"
)

// splitTolerance is how far the part sum may drift from the plan total
// before payment actions are blocked.
const splitTolerance = 0.01

// SplitPart is one independently payable share of a charge.
type SplitPart struct {
	Amount float64 `json:"amount"`
	Paid   bool    `json:"paid"`
}

// SplitPlan divides one charge into parts. Paid parts are frozen; resizing
// redistributes only the unpaid remainder, evenly, with the last unpaid part
// absorbing the cent residue so the plan sum stays exact.
type SplitPlan struct {
	ID        string      `json:"id"`
	SessionID *int64      `json:"session_id,omitempty"`
	Total     float64     `json:"total"`
	Parts     []SplitPart `json:"parts"`
}

// NewSplitPlan partitions total into count equal parts.
func NewSplitPlan(total float64, count int) (*SplitPlan, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: split total must be positive", ErrValidation)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: split needs at least one part", ErrValidation)
	}
	plan := &SplitPlan{Total: roundCents(total), Parts: make([]SplitPart, count)}
	plan.redistribute()
	return plan, nil
}

// AddPart appends an unpaid part and spreads the unpaid remainder over it and
// its unpaid siblings.
func (p *SplitPlan) AddPart() {
	p.Parts = append(p.Parts, SplitPart{})
	p.redistribute()
}

// RemovePart drops an unpaid part; its share flows back into the remaining
// unpaid parts. Paid parts cannot be removed.
func (p *SplitPlan) RemovePart(index int) error {
	if index < 0 || index >= len(p.Parts) {
		return fmt.Errorf("%w: split part %d out of range", ErrValidation, index)
	}
	if p.Parts[index].Paid {
		return fmt.Errorf("%w: cannot remove a paid part", ErrValidation)
	}
	if len(p.Parts) == 1 {
		return fmt.Errorf("%w: cannot remove the last part", ErrValidation)
	}
	p.Parts = append(p.Parts[:index], p.Parts[index+1:]...)
	p.redistribute()
	return nil
}

// Validate checks the plan invariant: all parts, paid and unpaid, must sum to
// the total within tolerance.
func (p *SplitPlan) Validate() error {
	var sum float64
	for _, part := range p.Parts {
		sum += part.Amount
	}
	if math.Abs(sum-p.Total) > splitTolerance {
		return fmt.Errorf("%w: parts sum %.2f, total %.2f", ErrSplitImbalance, sum, p.Total)
	}
	return nil
}

// MarkPaid freezes one part. Reports whether every part is now paid.
func (p *SplitPlan) MarkPaid(index int) (bool, error) {
	if index < 0 || index >= len(p.Parts) {
		return false, fmt.Errorf("%w: split part %d out of range", ErrValidation, index)
	}
	if p.Parts[index].Paid {
		return false, ErrPartAlreadyPaid
	}
	p.Parts[index].Paid = true
	return p.unpaidCount() == 0, nil
}

// PaidAmount sums frozen parts.
func (p *SplitPlan) PaidAmount() float64 {
	var sum float64
	for _, part := range p.Parts {
		if part.Paid {
			sum += part.Amount
		}
	}
	return roundCents(sum)
}

func (p *SplitPlan) unpaidCount() int {
	n := 0
	for _, part := range p.Parts {
		if !part.Paid {
			n++
		}
	}
	return n
}

// redistribute spreads total minus the frozen paid sum evenly across unpaid
// parts. The last unpaid part absorbs rounding so the sum is exact.
func (p *SplitPlan) redistribute() {
	unpaid := p.unpaidCount()
	if unpaid == 0 {
		return
	}
	remainder := roundCents(p.Total - p.PaidAmount())
	if remainder < 0 {
		remainder = 0
	}
	share := roundCents(remainder / float64(unpaid))

	assigned := 0.0
	seen := 0
	for i := range p.Parts {
		if p.Parts[i].Paid {
			continue
		}
		seen++
		if seen == unpaid {
			p.Parts[i].Amount = roundCents(remainder - assigned)
		} else {
			p.Parts[i].Amount = share
			assigned = roundCents(assigned + share)
		}
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
