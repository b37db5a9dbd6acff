package types

import (
	"errors"
	"fmt"
)

type ConflictReason string

const (
	REASON_ALREADY_BOOKED       ConflictReason = "ALREADY_BOOKED"
	REASON_TEMPORARILY_RESERVED ConflictReason = "TEMPORARILY_RESERVED"
)

// ConflictError is the typed outcome for a date-range collision. For a
// TEMPORARILY_RESERVED conflict RetryAfterSeconds tells the caller when the
// blocking lock runs out.
type ConflictError struct {
	Reason            ConflictReason `json:"reason"`
	RetryAfterSeconds int64          `json:"retry_after_seconds,omitempty"`
}

func (e *ConflictError) Error() string {
	if e.Reason == REASON_TEMPORARILY_RESERVED {
		return fmt.Sprintf("listing is temporarily reserved, retry after %ds", e.RetryAfterSeconds)
	}
	return "listing already has a confirmed booking for these dates"
}

var (
	ErrNotFound           = errors.New("intent not found")
	ErrInvalidState       = errors.New("operation not valid for the intent's current state")
	ErrExpired            = errors.New("reservation lock has expired")
	ErrListingUnavailable = errors.New("listing is no longer available")
	ErrUnauthorized       = errors.New("requester does not own this intent")
	ErrAmountMismatch     = errors.New("paid amount does not match the reserved amount")
)

type AvailabilityCheck struct {
	Available         bool            `json:"available"`
	Reason            *ConflictReason `json:"reason,omitempty"`
	RetryAfterSeconds int64           `json:"retry_after_seconds,omitempty"`
}

// Conflict converts a negative check into its error form.
func (a *AvailabilityCheck) Conflict() *ConflictError {
	if a.Available || a.Reason == nil {
		return nil
	}
	return &ConflictError{Reason: *a.Reason, RetryAfterSeconds: a.RetryAfterSeconds}
}
