package attendance

import "time"

// =============================================================================
// PUNCTUALITY ACTIONS - Audit trail of executed side-effects
// =============================================================================

// ActionKind is the closed set of side-effects the action engine executes.
type ActionKind string

const (
	ActionStatusRecorded     ActionKind = "status_recorded"
	ActionLateMinutesAdded   ActionKind = "late_minutes_added"
	ActionCommentRequired    ActionKind = "comment_required"
	ActionUserNotified       ActionKind = "user_notified"
	ActionSupervisorNotified ActionKind = "supervisor_notified"
	ActionAdminsNotified     ActionKind = "admins_notified"
	ActionSlackNotified      ActionKind = "slack_notified"
	ActionAbsenceNotified    ActionKind = "absence_notified"
)

// PunctualityAction records one side-effect execution. The list for a source
// is append-only: failures are recorded here, never thrown, so a failing
// notification channel cannot abort the rest of the cascade.
type PunctualityAction struct {
	ID string

	// SourceID is the originating CheckInEvent ID, or the AttendanceIssue ID
	// for the absence-notification path.
	SourceID string

	Kind       ActionKind
	ExecutedAt time.Time
	Success    bool
	Error      string
	Details    map[string]string
}
