package service

import "errors"

var (
	// ErrValidation marks malformed input detected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrSplitImbalance means split part amounts do not sum to the plan
	// total within tolerance; payment actions are blocked until the plan is
	// fixed or rebuilt.
	ErrSplitImbalance = errors.New("split amounts do not sum to total")
	// ErrPartAlreadyPaid guards double settlement of one split part.
	ErrPartAlreadyPaid = errors.New("split part already paid")
)
