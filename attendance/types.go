/*
Package attendance provides the core punctuality and attendance domain.

PURPOSE:
  This package contains the domain types and algorithms shared by the whole
  engine: check-in events captured at kiosks, their classification against a
  work schedule, the issues synthesized when an expected event never arrives,
  and the audit trail of side-effects executed for a classified event.

KEY CONCEPTS IN THIS FILE (types.go):
  - CheckInEvent: A timestamped entry/lunch_out/lunch_return/exit capture
  - ClassificationResult: Status plus lateness/earliness magnitude
  - Employee: The subset of the employee record the engine reads and mutates
  - Date: A calendar day in local time (used as issue and lookup keys)

DESIGN PRINCIPLES:
  1. Closed enums: event types, statuses, issue kinds and action kinds are
     typed string constants, handled exhaustively at each consumer
  2. Immutability: a classified event is never rewritten; only the
     requires-comment flag may be appended afterwards
  3. Auditability: every side-effect is recorded as a PunctualityAction

SEE ALSO:
  - session.go: Same-day pairing of opening/closing events
  - issue.go: AttendanceIssue lifecycle
  - action.go: PunctualityAction audit records
  - store.go: Persistence interfaces
*/
package attendance

import (
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EventID string
type UserID string
type IssueID string

// =============================================================================
// CHECK-IN EVENTS
// =============================================================================

// CheckInType is the closed set of recognized check-in kinds.
type CheckInType string

const (
	CheckEntry       CheckInType = "entry"
	CheckLunchOut    CheckInType = "lunch_out"
	CheckLunchReturn CheckInType = "lunch_return"
	CheckExit        CheckInType = "exit"
)

// Valid reports whether t is one of the four recognized kinds.
func (t CheckInType) Valid() bool {
	switch t {
	case CheckEntry, CheckLunchOut, CheckLunchReturn, CheckExit:
		return true
	}
	return false
}

// IsOpening reports whether t opens a session (entry, lunch_out).
func (t CheckInType) IsOpening() bool { return t == CheckEntry || t == CheckLunchOut }

// IsClosing reports whether t closes a session (exit, lunch_return).
func (t CheckInType) IsClosing() bool { return t == CheckExit || t == CheckLunchReturn }

// Opener returns the opening type a closing type pairs with.
func (t CheckInType) Opener() CheckInType {
	switch t {
	case CheckExit:
		return CheckEntry
	case CheckLunchReturn:
		return CheckLunchOut
	default:
		return ""
	}
}

// Status is the punctuality outcome assigned to a classified event.
type Status string

const (
	StatusOnTime          Status = "on_time"
	StatusLate            Status = "late"
	StatusEarly           Status = "early"
	StatusInvalidLocation Status = "invalid_location"
)

// Geolocation is the optional capture coordinate attached to mobile events.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CheckInEvent is one timestamped capture from a kiosk or mobile client.
// Immutable once classified, except for the appended requires-comment flag
// and the comment itself.
type CheckInEvent struct {
	ID          EventID
	UserID      UserID
	KioskID     string
	ProductLine string
	Type        CheckInType
	Timestamp   time.Time
	Location    *Geolocation

	// LocationValid is pre-computed by the capture surface from the
	// distance-to-kiosk check. Events without a location arrive valid.
	LocationValid bool

	// Classification outcome, assigned exactly once.
	Status       Status
	MinutesLate  int
	MinutesEarly int

	Comment         string
	RequiresComment bool

	CreatedAt time.Time
}

// Date returns the local calendar day the event belongs to.
func (e CheckInEvent) Date() Date { return DateOf(e.Timestamp) }

// ClassificationResult is the derived outcome of classifying one event.
// It is attached to the event, never stored independently.
type ClassificationResult struct {
	Status       Status
	MinutesLate  int
	MinutesEarly int
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Role distinguishes regular employees from the admin tiers that receive
// escalation notifications and are excluded from absence sweeps.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role belongs to an admin tier.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// Employee is the slice of the employee record the engine needs: assignment
// inputs for classification plus the monotonically growing late-minutes
// accumulator.
type Employee struct {
	ID           UserID
	Name         string
	Email        string
	Role         Role
	ProductLine  string
	KioskID      string
	SupervisorID UserID // empty = no assigned supervisor
	Active       bool

	// TotalLateMinutes only ever grows; incremented by the action engine
	// for late entries and late lunch returns.
	TotalLateMinutes int
}

// =============================================================================
// CALENDAR DATES
// =============================================================================

// Date is a calendar day in local time, formatted 2006-01-02.
// Comparable, sortable, and usable as a map or index key.
type Date string

const dateLayout = "2006-01-02"

// DateOf truncates a timestamp to its local calendar day.
func DateOf(t time.Time) Date { return Date(t.Local().Format(dateLayout)) }

// Time returns midnight local time of the day. Invalid dates yield the zero
// time; callers validate dates at the API boundary.
func (d Date) Time() time.Time {
	t, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// At returns the given wall-clock minute of the day in local time. Built
// from calendar components, not elapsed time from midnight, so a DST
// transition earlier in the day does not shift the result.
func (d Date) At(minuteOfDay int) time.Time {
	t := d.Time()
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, time.Local)
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) Valid() bool {
	_, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	return err == nil
}
