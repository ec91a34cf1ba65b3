/*
store.go - Persistence interfaces for the attendance domain

PURPOSE:
  Defines the interface between the engine and the database. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  CheckInStore:  Check-in event persistence and same-day lookups
  IssueStore:    AttendanceIssue persistence with the idempotent insert
  EmployeeStore: Employee lookups and the late-minutes accumulator
  ActionLog:     Append-only audit of executed side-effects

IDEMPOTENT ISSUE INSERT:
  IssueStore.Insert must reject a second issue for the same (user, kind,
  date) with ErrDuplicateIssue, resolved or not. Implementations enforce
  this with a unique constraint or conditional insert, NOT a preceding
  read, so concurrent sweeps cannot race a duplicate in and a resolved
  issue is never re-raised for the same day.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - attendance/store/memory.go: In-memory for testing

SEE ALSO:
  - engine/detector.go: Sweeps against these interfaces
  - engine/actions.go: Records the audit trail through ActionLog
*/
package attendance

import (
	"context"
	"time"
)

// =============================================================================
// CHECK-IN STORE
// =============================================================================

// CheckInStore handles persistence of check-in events.
type CheckInStore interface {
	// Insert persists a classified event.
	Insert(ctx context.Context, ev CheckInEvent) error

	// Get returns one event. Returns ErrEventNotFound if missing.
	Get(ctx context.Context, id EventID) (CheckInEvent, error)

	// ListDay returns an employee's events for one calendar day,
	// ordered by timestamp.
	ListDay(ctx context.Context, userID UserID, date Date) ([]CheckInEvent, error)

	// SetRequiresComment appends the requires-comment flag to an event.
	// This is the only post-classification mutation an event permits.
	SetRequiresComment(ctx context.Context, id EventID) error

	// SetComment attaches an explanatory comment to an event.
	SetComment(ctx context.Context, id EventID, comment string) error
}

// =============================================================================
// ISSUE STORE
// =============================================================================

// IssueFilter narrows issue listings. Nil fields match everything.
type IssueFilter struct {
	UserID   *UserID
	Date     *Date
	Kind     *IssueKind
	Resolved *bool
}

// IssueStore handles persistence of attendance issues.
type IssueStore interface {
	// Insert persists a new issue. Returns ErrDuplicateIssue when an
	// issue with the same (user, kind, date) already exists.
	Insert(ctx context.Context, issue AttendanceIssue) error

	// Get returns one issue. Returns ErrIssueNotFound if missing.
	Get(ctx context.Context, id IssueID) (AttendanceIssue, error)

	// List returns issues matching the filter, newest first.
	List(ctx context.Context, filter IssueFilter) ([]AttendanceIssue, error)

	// Resolve terminally marks an issue resolved. Synchronous: store errors
	// surface to the caller. Returns ErrIssueNotFound if missing.
	Resolve(ctx context.Context, id IssueID, by, resolution string, at time.Time) error
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// EmployeeStore handles the employee records the engine reads and mutates.
type EmployeeStore interface {
	// Get returns one employee. Returns ErrEmployeeNotFound if missing.
	Get(ctx context.Context, id UserID) (Employee, error)

	// List returns every employee record.
	List(ctx context.Context) ([]Employee, error)

	// ListActive returns active employees, admin tiers included.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListActiveAdmins returns active admins and super-admins, the
	// recipients of escalation notifications.
	ListActiveAdmins(ctx context.Context) ([]Employee, error)

	// Put creates or replaces an employee record.
	Put(ctx context.Context, e Employee) error

	// AddLateMinutes increments the accumulated late-minutes counter.
	AddLateMinutes(ctx context.Context, id UserID, minutes int) error
}

// =============================================================================
// ACTION LOG - Append-only, tracks what the engine did and when
// =============================================================================

type ActionLog interface {
	Append(ctx context.Context, action PunctualityAction) error

	// ListBySource returns the actions executed for one event or issue,
	// in execution order.
	ListBySource(ctx context.Context, sourceID string) ([]PunctualityAction, error)
}
