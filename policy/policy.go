/*
Package policy resolves the layered punctuality policy for a product line.

PURPOSE:
  Policy is stored as at most two partial documents: a global document and a
  product-scoped override. The Resolver merges them field by field over the
  hard-coded defaults and hands the engine one fully-populated Policy value.
  Nothing downstream ever sees a partial or missing policy.

RESOLUTION RULE:
  For every leaf field: product override's value if present, else the global
  document's, else the hard default. Zero documents present is a valid,
  non-error state (defaults apply throughout).

KEY CONCEPTS:
  - Policy: Fully-populated, immutable ruleset handed to the engine
  - Document: Partial record with pointer fields (absent = fall through)
  - Resolver: The single merge point; no partial configs travel deeper

SEE ALSO:
  - resolver.go: Document shape and the field-level merge
  - engine/: Consumes resolved Policy values, passed explicitly
*/
package policy

// =============================================================================
// POLICY - Fully-populated ruleset
// =============================================================================

// AbsenceRules sets the grace windows before a missing event becomes an issue.
type AbsenceRules struct {
	// NoEntryAfterMinutes is the grace past scheduled entry before a missing
	// entry event is flagged.
	NoEntryAfterMinutes int

	// NoExitAfterMinutes is the grace past scheduled exit before a missing
	// exit event is flagged.
	NoExitAfterMinutes int
}

// AutoCloseRules govern system-synthesized end-of-day closure.
type AutoCloseRules struct {
	CloseAfterMinutes int

	// MarkAsAbsent enables the auto_closed issue. Off by default: auto-close
	// is an opt-in escalation on top of the no_exit issue.
	MarkAsAbsent bool
}

// LunchRules cap lunch breaks for the absence sweep.
type LunchRules struct {
	MaxDurationMinutes int
}

// CommentRules decide when an explanatory comment is demanded.
type CommentRules struct {
	RequireOnLateArrival    bool
	RequireOnLongLunch      bool
	RequireOnEarlyDeparture bool

	// MinCommentLength is the minimum character count for an attached
	// comment to satisfy the requirement.
	MinCommentLength int
}

// NotificationRules route in-app notifications per recipient class and
// per event kind.
type NotificationRules struct {
	NotifyUser       bool
	NotifySupervisor bool
	NotifyAdmin      bool

	OnLateEntry bool
	OnLongLunch bool
	OnEarlyExit bool
	OnAbsence   bool
}

// SlackRules route webhook messages.
type SlackRules struct {
	Enabled    bool
	WebhookURL string

	OnLateEntry bool
	OnLongLunch bool
	OnEarlyExit bool
	OnAbsence   bool
}

// Policy is the complete, resolved ruleset for one product line.
type Policy struct {
	Absence       AbsenceRules
	AutoClose     AutoCloseRules
	Lunch         LunchRules
	Comments      CommentRules
	Notifications NotificationRules
	Slack         SlackRules

	// SevereDelayThresholdMinutes escalates notification severity once
	// minutes-late reaches it.
	SevereDelayThresholdMinutes int
}

// =============================================================================
// HARD DEFAULTS - Apply when neither document sets a field
// =============================================================================

// Defaults returns the hard-coded base policy. Every field here is the
// documented default the field-level fallback bottoms out at.
func Defaults() Policy {
	return Policy{
		Absence: AbsenceRules{
			NoEntryAfterMinutes: 60, // one hour past scheduled entry
			NoExitAfterMinutes:  60, // one hour past scheduled exit
		},
		AutoClose: AutoCloseRules{
			CloseAfterMinutes: 120, // two hours past scheduled exit
			MarkAsAbsent:      false,
		},
		Lunch: LunchRules{
			MaxDurationMinutes: 60,
		},
		Comments: CommentRules{
			RequireOnLateArrival:    true,
			RequireOnLongLunch:      false,
			RequireOnEarlyDeparture: false,
			MinCommentLength:        10,
		},
		Notifications: NotificationRules{
			NotifyUser:       true,
			NotifySupervisor: true,
			NotifyAdmin:      false,
			OnLateEntry:      true,
			OnLongLunch:      true,
			OnEarlyExit:      false,
			OnAbsence:        true,
		},
		Slack: SlackRules{
			Enabled: false, // no webhook until an admin configures one
		},
		SevereDelayThresholdMinutes: 30,
	}
}
