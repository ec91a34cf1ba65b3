/*
errors.go - Centralized error types for the attendance domain

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Store implementations and the engine wrap these with additional context.

ERROR CATEGORIES:
  1. Not-found errors - Lookups against the stores
  2. Idempotency - Duplicate issues are suppressed, not raised
  3. Validation - Malformed events rejected at the boundary

USAGE:
    if errors.Is(err, attendance.ErrDuplicateIssue) {
        // expected under repeated sweeps, silently no-op
    }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateIssue is returned by IssueStore.Insert when an issue with
	// the same (user, kind, date) already exists, resolved or not. This is
	// the idempotency guard for repeated sweeps and is not treated as a
	// failure; a resolved issue is never raised again for the same day.
	ErrDuplicateIssue = errors.New("issue already exists for this day")

	// ErrIssueNotFound is returned when a referenced issue doesn't exist.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrEventNotFound is returned when a referenced check-in doesn't exist.
	ErrEventNotFound = errors.New("check-in event not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidEvent is returned when an incoming event fails validation.
	ErrInvalidEvent = errors.New("invalid check-in event")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EventValidationError describes why an incoming check-in was rejected.
type EventValidationError struct {
	Field  string
	Reason string
}

func (e *EventValidationError) Error() string {
	return fmt.Sprintf("invalid check-in event: %s %s", e.Field, e.Reason)
}

func (e *EventValidationError) Unwrap() error { return ErrInvalidEvent }

// Validate rejects events that cannot be classified at all. Classification
// tolerances are not validated here; that is schedule/policy territory.
func (e CheckInEvent) Validate() error {
	if e.UserID == "" {
		return &EventValidationError{Field: "userId", Reason: "is required"}
	}
	if !e.Type.Valid() {
		return &EventValidationError{Field: "type", Reason: fmt.Sprintf("%q is not a recognized check-in type", e.Type)}
	}
	if e.Timestamp.IsZero() {
		return &EventValidationError{Field: "timestamp", Reason: "is required"}
	}
	return nil
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIssueNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
