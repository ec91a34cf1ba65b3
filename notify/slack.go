package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// =============================================================================
// SEVERITY TIERS - Minutes late to Slack styling
// =============================================================================

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// moderateDelayMinutes is the fixed lower bound of the moderate tier.
// Only the severe threshold is policy-configurable.
const moderateDelayMinutes = 10

// SeverityFor maps minutes late onto a tier given the policy's severe
// threshold.
func SeverityFor(minutesLate, severeThreshold int) Severity {
	switch {
	case minutesLate >= severeThreshold:
		return SeveritySevere
	case minutesLate > moderateDelayMinutes:
		return SeverityModerate
	default:
		return SeverityMild
	}
}

// Color returns the Slack attachment color for the tier.
func (s Severity) Color() string {
	switch s {
	case SeveritySevere:
		return "#d00000"
	case SeverityModerate:
		return "#e8a100"
	default:
		return "#2eb886"
	}
}

// Emoji returns the message prefix emoji for the tier.
func (s Severity) Emoji() string {
	switch s {
	case SeveritySevere:
		return ":rotating_light:"
	case SeverityModerate:
		return ":warning:"
	default:
		return ":information_source:"
	}
}

// =============================================================================
// SLACK WEBHOOK CLIENT
// =============================================================================

// ErrWebhookMissing is returned when Slack is enabled but no webhook URL is
// configured. Recorded as a failed action, never a crash.
var ErrWebhookMissing = errors.New("slack webhook URL not configured")

// SlackMessage is the structured payload posted to an incoming webhook.
type SlackMessage struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

type SlackAttachment struct {
	Color string `json:"color,omitempty"`
	Text  string `json:"text"`
}

// SlackPoster posts a structured message to a webhook URL.
type SlackPoster interface {
	Post(ctx context.Context, webhookURL string, msg SlackMessage) error
}

// SlackWebhook is the production SlackPoster over net/http. The fallback
// URL, when set, stands in for policies that enable Slack without naming a
// webhook of their own.
type SlackWebhook struct {
	client      *http.Client
	fallbackURL string
}

func NewSlackWebhook() *SlackWebhook {
	return &SlackWebhook{client: &http.Client{Timeout: 10 * time.Second}}
}

// WithFallbackURL sets the process-level webhook used when a policy leaves
// the URL empty.
func (s *SlackWebhook) WithFallbackURL(url string) *SlackWebhook {
	s.fallbackURL = url
	return s
}

func (s *SlackWebhook) Post(ctx context.Context, webhookURL string, msg SlackMessage) error {
	if webhookURL == "" {
		webhookURL = s.fallbackURL
	}
	if webhookURL == "" {
		return ErrWebhookMissing
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
