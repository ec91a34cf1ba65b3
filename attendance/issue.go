package attendance

import "time"

// =============================================================================
// ATTENDANCE ISSUES - Synthesized "missing event" records
// =============================================================================

// IssueKind is the closed set of issues the detector can synthesize.
type IssueKind string

const (
	IssueNoEntry         IssueKind = "no_entry"
	IssueNoExit          IssueKind = "no_exit"
	IssueLateLunchReturn IssueKind = "late_lunch_return"
	IssueAutoClosed      IssueKind = "auto_closed"
)

func (k IssueKind) Valid() bool {
	switch k {
	case IssueNoEntry, IssueNoExit, IssueLateLunchReturn, IssueAutoClosed:
		return true
	}
	return false
}

// AttendanceIssue records that an expected check-in never arrived.
//
// INVARIANT: at most one issue per (UserID, Kind, Date), resolved or not.
// The issue store enforces this with a conditional insert so repeated sweeps
// are idempotent. An issue is terminally resolved by an explicit human action
// and never re-opened or re-created automatically.
type AttendanceIssue struct {
	ID     IssueID
	UserID UserID
	Kind   IssueKind
	Date   Date

	// ExpectedAt is the deadline that passed: scheduled time plus the
	// applicable grace window.
	ExpectedAt     time.Time
	DetectedAt     time.Time
	MinutesOverdue int

	Resolved   bool
	ResolvedBy string
	ResolvedAt *time.Time
	Resolution string
}
