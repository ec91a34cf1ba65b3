/*
actions.go - The side-effect cascade for a classified check-in

PURPOSE:
  Executes the ordered consequences of a classification: audit the status,
  grow the late-minutes accumulator, demand an explanatory comment, and fan
  notifications out to user, supervisor, admins, and Slack.

FAILURE SEMANTICS:
  Every step is best-effort. A failing step is recorded as an unsuccessful
  PunctualityAction and the cascade continues; nothing here aborts the
  pipeline. A missing supervisor is a skip, not a failure. Slack enabled
  with no webhook URL is a recorded failure, not a crash.
*/
package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
)

// Actions executes the notification/accumulation cascade.
type Actions struct {
	employees attendance.EmployeeStore
	checkins  attendance.CheckInStore
	audit     attendance.ActionLog
	sink      notify.Sink
	slack     notify.SlackPoster
	mailer    notify.Mailer // optional; nil disables email
	log       *logrus.Logger
}

func NewActions(
	employees attendance.EmployeeStore,
	checkins attendance.CheckInStore,
	audit attendance.ActionLog,
	sink notify.Sink,
	slack notify.SlackPoster,
	mailer notify.Mailer,
	log *logrus.Logger,
) *Actions {
	return &Actions{
		employees: employees,
		checkins:  checkins,
		audit:     audit,
		sink:      sink,
		slack:     slack,
		mailer:    mailer,
		log:       log,
	}
}

// Apply runs the cascade for a freshly classified check-in and returns the
// audit list of everything it did, failures included.
func (a *Actions) Apply(ctx context.Context, ev attendance.CheckInEvent, result attendance.ClassificationResult, emp attendance.Employee, pol policy.Policy) []attendance.PunctualityAction {
	var out []attendance.PunctualityAction

	// 1. Record the assigned status. Audit only, always succeeds.
	a.record(ctx, &out, string(ev.ID), attendance.ActionStatusRecorded, nil, map[string]string{
		"status":        string(result.Status),
		"minutes_late":  strconv.Itoa(result.MinutesLate),
		"minutes_early": strconv.Itoa(result.MinutesEarly),
	})

	// 2. Accumulate late minutes for late entries and late lunch returns.
	if result.Status == attendance.StatusLate &&
		(ev.Type == attendance.CheckEntry || ev.Type == attendance.CheckLunchReturn) {
		err := a.employees.AddLateMinutes(ctx, emp.ID, result.MinutesLate)
		a.record(ctx, &out, string(ev.ID), attendance.ActionLateMinutesAdded, err, map[string]string{
			"minutes": strconv.Itoa(result.MinutesLate),
		})
	}

	// 3. Comment requirement.
	if a.commentRequired(ev, result, pol.Comments) {
		err := a.checkins.SetRequiresComment(ctx, ev.ID)
		a.record(ctx, &out, string(ev.ID), attendance.ActionCommentRequired, err, map[string]string{
			"min_length": strconv.Itoa(pol.Comments.MinCommentLength),
		})
	}

	// 4. Notification fan-out, gated first per event type, then per
	//    recipient class.
	if !eventNotifiable(ev.Type, result.Status, pol.Notifications) {
		return out
	}

	userTitle, userMsg := notify.EventMessage(ev, result, emp)
	teamTitle, teamMsg := notify.EscalationMessage(ev, result, emp)

	if pol.Notifications.NotifyUser {
		a.notifyUser(ctx, &out, string(ev.ID), emp, userTitle, userMsg)
	}
	if pol.Notifications.NotifySupervisor {
		a.notifySupervisor(ctx, &out, string(ev.ID), emp, teamTitle, teamMsg)
	}
	if pol.Notifications.NotifyAdmin {
		a.notifyAdmins(ctx, &out, string(ev.ID), teamTitle, teamMsg)
	}
	if pol.Slack.Enabled && slackEventFlag(ev.Type, result.Status, pol.Slack) {
		severity := notify.SeverityFor(result.MinutesLate, pol.SevereDelayThresholdMinutes)
		msg := notify.SlackEventMessage(ev, result, emp, severity)
		err := a.slack.Post(ctx, pol.Slack.WebhookURL, msg)
		a.record(ctx, &out, string(ev.ID), attendance.ActionSlackNotified, err, map[string]string{
			"severity": string(severity),
		})
	}

	return out
}

// ApplyIssue runs the absence-notification path for a detector-synthesized
// issue. The detector calls this once per freshly inserted issue when the
// policy's absence flag is set.
func (a *Actions) ApplyIssue(ctx context.Context, issue attendance.AttendanceIssue, emp attendance.Employee, pol policy.Policy) []attendance.PunctualityAction {
	var out []attendance.PunctualityAction

	title, msg := notify.IssueMessage(issue, emp)

	a.record(ctx, &out, string(issue.ID), attendance.ActionAbsenceNotified, nil, map[string]string{
		"kind": string(issue.Kind),
		"date": string(issue.Date),
	})

	if pol.Notifications.NotifySupervisor {
		a.notifySupervisor(ctx, &out, string(issue.ID), emp, title, msg)
	}
	if pol.Notifications.NotifyAdmin {
		a.notifyAdmins(ctx, &out, string(issue.ID), title, msg)
	}
	if pol.Slack.Enabled && pol.Slack.OnAbsence {
		severity := notify.SeverityFor(issue.MinutesOverdue, pol.SevereDelayThresholdMinutes)
		err := a.slack.Post(ctx, pol.Slack.WebhookURL, notify.SlackIssueMessage(issue, emp, severity))
		a.record(ctx, &out, string(issue.ID), attendance.ActionSlackNotified, err, map[string]string{
			"severity": string(severity),
		})
	}

	return out
}

// =============================================================================
// STEP HELPERS
// =============================================================================

// commentRequired decides whether an explanatory comment must be demanded.
// An already-attached comment of sufficient length satisfies the rule.
func (a *Actions) commentRequired(ev attendance.CheckInEvent, result attendance.ClassificationResult, rules policy.CommentRules) bool {
	if len(ev.Comment) >= rules.MinCommentLength && ev.Comment != "" {
		return false
	}
	switch {
	case ev.Type == attendance.CheckEntry && result.Status == attendance.StatusLate:
		return rules.RequireOnLateArrival
	case ev.Type == attendance.CheckLunchReturn && result.Status == attendance.StatusLate:
		return rules.RequireOnLongLunch
	case ev.Type == attendance.CheckExit && result.Status == attendance.StatusEarly:
		return rules.RequireOnEarlyDeparture
	}
	return false
}

// eventNotifiable is the per-event-type "should notify at all" gate.
// On-time events never notify. Invalid-location events always reach the
// recipient gates: a capture outside the allowed radius is worth surfacing
// independent of the timing flags.
func eventNotifiable(t attendance.CheckInType, st attendance.Status, rules policy.NotificationRules) bool {
	if st == attendance.StatusInvalidLocation {
		return true
	}
	switch {
	case t == attendance.CheckEntry && st == attendance.StatusLate:
		return rules.OnLateEntry
	case t == attendance.CheckLunchReturn && st == attendance.StatusLate:
		return rules.OnLongLunch
	case t == attendance.CheckExit && st == attendance.StatusEarly:
		return rules.OnEarlyExit
	}
	return false
}

func slackEventFlag(t attendance.CheckInType, st attendance.Status, rules policy.SlackRules) bool {
	if st == attendance.StatusInvalidLocation {
		return rules.OnLateEntry || rules.OnLongLunch || rules.OnEarlyExit
	}
	switch {
	case t == attendance.CheckEntry && st == attendance.StatusLate:
		return rules.OnLateEntry
	case t == attendance.CheckLunchReturn && st == attendance.StatusLate:
		return rules.OnLongLunch
	case t == attendance.CheckExit && st == attendance.StatusEarly:
		return rules.OnEarlyExit
	}
	return false
}

func (a *Actions) notifyUser(ctx context.Context, out *[]attendance.PunctualityAction, sourceID string, emp attendance.Employee, title, msg string) {
	err := a.sink.Notify(ctx, []string{string(emp.ID)}, title, msg, sourceID)
	details := map[string]string{"recipient": string(emp.ID)}

	// Email rides along with the user notification; its failure is noted
	// in the details without flipping the action outcome.
	if err == nil && a.mailer != nil && emp.Email != "" {
		if mailErr := a.mailer.Send(ctx, emp.Email, title, msg); mailErr != nil {
			details["email_error"] = mailErr.Error()
		}
	}
	a.record(ctx, out, sourceID, attendance.ActionUserNotified, err, details)
}

func (a *Actions) notifySupervisor(ctx context.Context, out *[]attendance.PunctualityAction, sourceID string, emp attendance.Employee, title, msg string) {
	if emp.SupervisorID == "" {
		// No assigned supervisor is a non-fatal skip, not an error.
		return
	}
	err := a.sink.Notify(ctx, []string{string(emp.SupervisorID)}, title, msg, sourceID)
	a.record(ctx, out, sourceID, attendance.ActionSupervisorNotified, err, map[string]string{
		"recipient": string(emp.SupervisorID),
	})
}

func (a *Actions) notifyAdmins(ctx context.Context, out *[]attendance.PunctualityAction, sourceID, title, msg string) {
	admins, err := a.employees.ListActiveAdmins(ctx)
	if err != nil {
		a.record(ctx, out, sourceID, attendance.ActionAdminsNotified, err, nil)
		return
	}
	if len(admins) == 0 {
		return
	}
	ids := make([]string, len(admins))
	for i, adm := range admins {
		ids[i] = string(adm.ID)
	}
	err = a.sink.Notify(ctx, ids, title, msg, sourceID)
	a.record(ctx, out, sourceID, attendance.ActionAdminsNotified, err, map[string]string{
		"recipients": strconv.Itoa(len(ids)),
	})
}

// record appends one executed action to the returned list and the persistent
// audit log. Audit persistence is itself best-effort.
func (a *Actions) record(ctx context.Context, out *[]attendance.PunctualityAction, sourceID string, kind attendance.ActionKind, err error, details map[string]string) {
	action := attendance.PunctualityAction{
		ID:         uuid.NewString(),
		SourceID:   sourceID,
		Kind:       kind,
		ExecutedAt: time.Now(),
		Success:    err == nil,
		Details:    details,
	}
	if err != nil {
		action.Error = err.Error()
		a.log.WithFields(logrus.Fields{
			"source": sourceID,
			"action": kind,
		}).WithError(err).Warn("punctuality action failed")
	}

	if auditErr := a.audit.Append(ctx, action); auditErr != nil {
		a.log.WithError(auditErr).Error("failed to persist punctuality action")
	}
	*out = append(*out, action)
}
