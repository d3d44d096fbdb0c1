package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Catalog errors
	ErrMsgCaseNotFound = "case not found"

	// Ledger errors
	ErrMsgInsufficientFunds      = "insufficient funds"
	ErrMsgConcurrentModification = "balance modified concurrently"

	// Inventory errors
	ErrMsgInventoryFull = "inventory is full"

	// Opening errors
	ErrMsgInvalidQuantity = "quantity must be between 1 and 4"
	ErrMsgPassRequired    = "unlock pass required"

	// Discount errors
	ErrMsgMaxDiscountLevel = "discount is already at maximum level"

	// Auth errors
	ErrMsgSessionInvalid = "session is invalid"
	ErrMsgCSRFInvalid    = "csrf token is invalid"
	ErrMsgRateLimited    = "rate limit exceeded"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)
	ErrCaseNotFound = errors.New(ErrMsgCaseNotFound)

	ErrInsufficientFunds      = errors.New(ErrMsgInsufficientFunds)
	ErrConcurrentModification = errors.New(ErrMsgConcurrentModification)

	ErrInventoryFull = errors.New(ErrMsgInventoryFull)

	ErrInvalidQuantity = errors.New(ErrMsgInvalidQuantity)
	ErrPassRequired    = errors.New(ErrMsgPassRequired)

	ErrMaxDiscountLevel = errors.New(ErrMsgMaxDiscountLevel)

	ErrSessionInvalid = errors.New(ErrMsgSessionInvalid)
	ErrCSRFInvalid    = errors.New(ErrMsgCSRFInvalid)
	ErrRateLimited    = errors.New(ErrMsgRateLimited)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// InsufficientFundsError reports a rejected debit with the figures the
// client needs to show the shortfall. Wraps ErrInsufficientFunds.
type InsufficientFundsError struct {
	Balance  float64
	Required float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: have %0.2f, need %0.2f", ErrMsgInsufficientFunds, e.Balance, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// CapacityError reports a failed capacity check with enough context for the
// client to show how many slots remain. Wraps ErrInventoryFull.
type CapacityError struct {
	Current   int
	Max       int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d/%d used, %d requested", ErrMsgInventoryFull, e.Current, e.Max, e.Requested)
}

func (e *CapacityError) Unwrap() error { return ErrInventoryFull }

// Available returns how many slots the user has left.
func (e *CapacityError) Available() int {
	if e.Max < e.Current {
		return 0
	}
	return e.Max - e.Current
}

// PassRequiredError reports a multi-open attempt without the gating unlock
// pass. Wraps ErrPassRequired.
type PassRequiredError struct {
	RequiredPass UnlockPass
	Quantity     int
}

func (e *PassRequiredError) Error() string {
	return fmt.Sprintf("%s: %s (quantity %d)", ErrMsgPassRequired, e.RequiredPass, e.Quantity)
}

func (e *PassRequiredError) Unwrap() error { return ErrPassRequired }

// RewardPersistError reports that inventory persistence failed after a
// successful debit. Refunded says whether the compensating refund landed;
// when it is false the incident needs manual reconciliation.
type RewardPersistError struct {
	Amount   float64
	Refunded bool
	Cause    error
}

func (e *RewardPersistError) Error() string {
	if e.Refunded {
		return fmt.Sprintf("reward persistence failed, %0.2f refunded: %v", e.Amount, e.Cause)
	}
	return fmt.Sprintf("reward persistence failed, refund of %0.2f also failed: %v", e.Amount, e.Cause)
}

func (e *RewardPersistError) Unwrap() error { return e.Cause }
