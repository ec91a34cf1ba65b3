package notify

import (
	"fmt"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// MESSAGE TEMPLATING - Human-readable titles and bodies per channel
// =============================================================================

// escalationPrefix distinguishes the supervisor/admin variant from the
// user-facing one.
const escalationPrefix = "[Team] "

func eventNoun(t attendance.CheckInType) string {
	switch t {
	case attendance.CheckEntry:
		return "entry"
	case attendance.CheckLunchOut:
		return "lunch break"
	case attendance.CheckLunchReturn:
		return "lunch return"
	case attendance.CheckExit:
		return "departure"
	default:
		return string(t)
	}
}

// EventMessage builds the user-facing title and message for a classified
// check-in.
func EventMessage(ev attendance.CheckInEvent, result attendance.ClassificationResult, emp attendance.Employee) (title, message string) {
	noun := eventNoun(ev.Type)
	switch result.Status {
	case attendance.StatusLate:
		title = fmt.Sprintf("Late %s recorded", noun)
		message = fmt.Sprintf("Your %s at kiosk %s was %d minute(s) late.",
			noun, ev.KioskID, result.MinutesLate)
	case attendance.StatusEarly:
		title = fmt.Sprintf("Early %s recorded", noun)
		message = fmt.Sprintf("Your %s at kiosk %s was %d minute(s) early.",
			noun, ev.KioskID, result.MinutesEarly)
	case attendance.StatusInvalidLocation:
		title = "Check-in outside allowed location"
		message = fmt.Sprintf("Your %s was captured outside the allowed radius of kiosk %s.",
			noun, ev.KioskID)
	default:
		title = fmt.Sprintf("%s recorded", noun)
		message = fmt.Sprintf("Your %s at kiosk %s was on time.", noun, ev.KioskID)
	}
	return title, message
}

// EscalationMessage builds the supervisor/admin variant for a classified
// check-in, prefixed distinctly from the user-facing one.
func EscalationMessage(ev attendance.CheckInEvent, result attendance.ClassificationResult, emp attendance.Employee) (title, message string) {
	noun := eventNoun(ev.Type)
	switch result.Status {
	case attendance.StatusLate:
		title = escalationPrefix + fmt.Sprintf("Late %s: %s", noun, emp.Name)
		message = fmt.Sprintf("%s was %d minute(s) late for %s at kiosk %s.",
			emp.Name, result.MinutesLate, noun, ev.KioskID)
	case attendance.StatusEarly:
		title = escalationPrefix + fmt.Sprintf("Early %s: %s", noun, emp.Name)
		message = fmt.Sprintf("%s left %d minute(s) early (%s, kiosk %s).",
			emp.Name, result.MinutesEarly, noun, ev.KioskID)
	case attendance.StatusInvalidLocation:
		title = escalationPrefix + fmt.Sprintf("Invalid location: %s", emp.Name)
		message = fmt.Sprintf("%s checked in outside the allowed radius of kiosk %s.",
			emp.Name, ev.KioskID)
	default:
		title = escalationPrefix + fmt.Sprintf("%s: %s", noun, emp.Name)
		message = fmt.Sprintf("%s recorded an on-time %s at kiosk %s.", emp.Name, noun, ev.KioskID)
	}
	return title, message
}

// IssueMessage builds the escalation text for a detector-synthesized issue.
func IssueMessage(issue attendance.AttendanceIssue, emp attendance.Employee) (title, message string) {
	switch issue.Kind {
	case attendance.IssueNoEntry:
		title = escalationPrefix + fmt.Sprintf("No entry: %s", emp.Name)
		message = fmt.Sprintf("%s has not checked in on %s; expected by %s, now %d minute(s) overdue.",
			emp.Name, issue.Date, issue.ExpectedAt.Format("15:04"), issue.MinutesOverdue)
	case attendance.IssueNoExit:
		title = escalationPrefix + fmt.Sprintf("No exit: %s", emp.Name)
		message = fmt.Sprintf("%s has not checked out on %s; expected by %s, now %d minute(s) overdue.",
			emp.Name, issue.Date, issue.ExpectedAt.Format("15:04"), issue.MinutesOverdue)
	case attendance.IssueLateLunchReturn:
		title = escalationPrefix + fmt.Sprintf("Lunch overrun: %s", emp.Name)
		message = fmt.Sprintf("%s has not returned from lunch on %s; %d minute(s) past the allowed duration.",
			emp.Name, issue.Date, issue.MinutesOverdue)
	case attendance.IssueAutoClosed:
		title = escalationPrefix + fmt.Sprintf("Day auto-closed: %s", emp.Name)
		message = fmt.Sprintf("The work day of %s on %s was auto-closed with no exit recorded.",
			emp.Name, issue.Date)
	default:
		title = escalationPrefix + fmt.Sprintf("Attendance issue: %s", emp.Name)
		message = fmt.Sprintf("%s has an open %s issue on %s.", emp.Name, issue.Kind, issue.Date)
	}
	return title, message
}

// SlackEventMessage builds the webhook payload for a classified check-in.
func SlackEventMessage(ev attendance.CheckInEvent, result attendance.ClassificationResult, emp attendance.Employee, severity Severity) SlackMessage {
	_, body := EscalationMessage(ev, result, emp)
	return SlackMessage{
		Text: fmt.Sprintf("%s %s", severity.Emoji(), body),
		Attachments: []SlackAttachment{{
			Color: severity.Color(),
			Text:  fmt.Sprintf("Employee: %s | Kiosk: %s | Product line: %s", emp.Name, ev.KioskID, emp.ProductLine),
		}},
	}
}

// SlackIssueMessage builds the webhook payload for an absence issue.
func SlackIssueMessage(issue attendance.AttendanceIssue, emp attendance.Employee, severity Severity) SlackMessage {
	_, body := IssueMessage(issue, emp)
	return SlackMessage{
		Text: fmt.Sprintf("%s %s", severity.Emoji(), body),
		Attachments: []SlackAttachment{{
			Color: severity.Color(),
			Text:  fmt.Sprintf("Employee: %s | Product line: %s | Issue: %s", emp.Name, emp.ProductLine, issue.Kind),
		}},
	}
}
