package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
)

// =============================================================================
// SEVERITY TIERS
// =============================================================================

func TestSeverityFor_Tiers(t *testing.T) {
	threshold := 30

	assert.Equal(t, notify.SeverityMild, notify.SeverityFor(1, threshold))
	assert.Equal(t, notify.SeverityMild, notify.SeverityFor(10, threshold))
	assert.Equal(t, notify.SeverityModerate, notify.SeverityFor(11, threshold))
	assert.Equal(t, notify.SeverityModerate, notify.SeverityFor(29, threshold))
	assert.Equal(t, notify.SeveritySevere, notify.SeverityFor(30, threshold))
	assert.Equal(t, notify.SeveritySevere, notify.SeverityFor(120, threshold))
}

func TestSeverityFor_LowThresholdWinsOverModerate(t *testing.T) {
	// A policy may set the severe threshold inside the moderate band.
	assert.Equal(t, notify.SeveritySevere, notify.SeverityFor(8, 5))
}

// =============================================================================
// SLACK WEBHOOK CLIENT
// =============================================================================

func TestSlackWebhook_PostsPayload(t *testing.T) {
	// GIVEN: A webhook endpoint capturing the request
	// WHEN: Posting a severe late-entry message
	// THEN: The JSON payload carries the emoji text and colored attachment

	var received notify.SlackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	msg := notify.SlackMessage{
		Text:        ":rotating_light: Rosa was 45 minute(s) late for entry at kiosk k-1.",
		Attachments: []notify.SlackAttachment{{Color: "#d00000", Text: "Employee: Rosa"}},
	}
	err := notify.NewSlackWebhook().Post(context.Background(), srv.URL, msg)
	require.NoError(t, err)

	assert.Equal(t, msg.Text, received.Text)
	require.Len(t, received.Attachments, 1)
	assert.Equal(t, "#d00000", received.Attachments[0].Color)
}

func TestSlackWebhook_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := notify.NewSlackWebhook().Post(context.Background(), srv.URL, notify.SlackMessage{Text: "hi"})
	assert.ErrorContains(t, err, "403")
}

func TestSlackWebhook_MissingURL(t *testing.T) {
	err := notify.NewSlackWebhook().Post(context.Background(), "", notify.SlackMessage{Text: "hi"})
	assert.ErrorIs(t, err, notify.ErrWebhookMissing)
}

func TestSlackWebhook_FallbackURL(t *testing.T) {
	// GIVEN: A policy that enables Slack without naming a webhook
	// WHEN: Posting with an empty URL on a client carrying a fallback
	// THEN: The fallback endpoint receives the message

	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := notify.NewSlackWebhook().WithFallbackURL(srv.URL)
	require.NoError(t, client.Post(context.Background(), "", notify.SlackMessage{Text: "hi"}))
	assert.True(t, hit)
}

// =============================================================================
// MESSAGE TEMPLATING
// =============================================================================

func TestEventMessage_PerStatus(t *testing.T) {
	emp := attendance.Employee{ID: "emp-1", Name: "Rosa Huaman"}
	ev := attendance.CheckInEvent{KioskID: "k-1", Type: attendance.CheckEntry}

	title, msg := notify.EventMessage(ev, attendance.ClassificationResult{
		Status: attendance.StatusLate, MinutesLate: 15,
	}, emp)
	assert.Equal(t, "Late entry recorded", title)
	assert.Contains(t, msg, "15 minute(s) late")

	ev.Type = attendance.CheckExit
	title, msg = notify.EventMessage(ev, attendance.ClassificationResult{
		Status: attendance.StatusEarly, MinutesEarly: 20,
	}, emp)
	assert.Equal(t, "Early departure recorded", title)
	assert.Contains(t, msg, "20 minute(s) early")

	title, _ = notify.EventMessage(ev, attendance.ClassificationResult{
		Status: attendance.StatusInvalidLocation,
	}, emp)
	assert.Equal(t, "Check-in outside allowed location", title)
}

func TestEscalationMessage_NamesTheEmployee(t *testing.T) {
	emp := attendance.Employee{ID: "emp-1", Name: "Rosa Huaman"}
	ev := attendance.CheckInEvent{KioskID: "k-1", Type: attendance.CheckEntry}

	title, msg := notify.EscalationMessage(ev, attendance.ClassificationResult{
		Status: attendance.StatusLate, MinutesLate: 15,
	}, emp)
	assert.Equal(t, "[Team] Late entry: Rosa Huaman", title)
	assert.Contains(t, msg, "Rosa Huaman was 15 minute(s) late")
}

func TestIssueMessage_NoEntry(t *testing.T) {
	emp := attendance.Employee{ID: "emp-1", Name: "Rosa Huaman"}
	issue := attendance.AttendanceIssue{
		Kind:           attendance.IssueNoEntry,
		Date:           "2026-08-24",
		ExpectedAt:     time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local),
		MinutesOverdue: 30,
	}

	title, msg := notify.IssueMessage(issue, emp)
	assert.Equal(t, "[Team] No entry: Rosa Huaman", title)
	assert.Contains(t, msg, "expected by 09:00")
	assert.Contains(t, msg, "30 minute(s) overdue")
}

func TestSlackEventMessage_CarriesSeverityStyling(t *testing.T) {
	emp := attendance.Employee{ID: "emp-1", Name: "Rosa Huaman", ProductLine: "assembly"}
	ev := attendance.CheckInEvent{KioskID: "k-1", Type: attendance.CheckEntry}

	msg := notify.SlackEventMessage(ev, attendance.ClassificationResult{
		Status: attendance.StatusLate, MinutesLate: 45,
	}, emp, notify.SeveritySevere)

	assert.Contains(t, msg.Text, ":rotating_light:")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "#d00000", msg.Attachments[0].Color)
	assert.Contains(t, msg.Attachments[0].Text, "assembly")
}
