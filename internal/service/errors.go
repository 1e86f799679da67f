package service

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers branch on business failures with errors.Is.
var (
	// ErrQuotaExceeded means creation was blocked by the subscription
	// plan. Non-retryable; the tenant must upgrade.
	ErrQuotaExceeded = errors.New("subscription quota exceeded")

	// ErrTenantInactive means the tenant is suspended or its
	// subscription has lapsed.
	ErrTenantInactive = errors.New("tenant is not active")

	// ErrAlreadyConverted means a second conversion was attempted on
	// the same inquiry. Surfaced as a conflict, non-retryable.
	ErrAlreadyConverted = errors.New("inquiry already converted")

	// ErrInquiryClosed means the inquiry reached a terminal state and
	// cannot transition further.
	ErrInquiryClosed = errors.New("inquiry is closed")

	// ErrInvalidTransition means an inquiry status change outside the
	// allowed state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidJurisdiction means tax was requested without seller or
	// buyer state codes. A configuration error for the tenant admin.
	ErrInvalidJurisdiction = errors.New("missing seller or buyer state code")

	// ErrInvariantViolation indicates a data-integrity bug (negative
	// quantity, total mismatch). Never silently corrected.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConcurrencyConflict means a sequence allocation or guarded
	// update lost a race. Retryable, but only from a fresh transaction.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrStageNotForward means a workflow transition tried to move
	// backwards without an explicit reopen.
	ErrStageNotForward = errors.New("workflow stage can only move forward")
)

// QuotaError reports which resource hit its plan limit.
type QuotaError struct {
	Resource ResourceKind
	Limit    int
	Current  int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded for %s: limit %d reached (current %d)", e.Resource, e.Limit, e.Current)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// ConversionError reports which inquiry was already converted.
type ConversionError struct {
	InquiryID uint
	OrderID   *uint
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("inquiry %d is already converted", e.InquiryID)
}

func (e *ConversionError) Unwrap() error { return ErrAlreadyConverted }

// InvariantError wraps ErrInvariantViolation with the broken rule.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }
