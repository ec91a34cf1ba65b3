/*
Package notify holds the notification dispatch contracts and clients.

PURPOSE:
  The action engine fans classified events out to recipients; this package
  owns the channels it dispatches through. In-app notifications persist
  through the Store behind a Sink; Slack goes through an HTTP webhook; email
  transport stays behind the Mailer contract (internals are out of scope,
  only the dispatch interface is specified).

CHANNELS:
  Sink:        In-app notification delivery (persisted per recipient)
  SlackPoster: Structured webhook message, returns delivery error
  Mailer:      Email dispatch contract only

FAILURE SEMANTICS:
  Every channel may fail independently. Callers record failures per action
  and keep going; nothing in this package panics or escalates.

SEE ALSO:
  - slack.go: Webhook client and severity tiers
  - message.go: Human-readable title/message templating
*/
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// IN-APP NOTIFICATIONS
// =============================================================================

// Notification is one persisted in-app notification for one recipient.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string

	// SourceID is the check-in event or issue that triggered this.
	SourceID string

	CreatedAt time.Time
	Read      bool
}

// Store persists in-app notifications.
type Store interface {
	Insert(ctx context.Context, n Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Sink delivers an in-app notification to a set of recipients.
type Sink interface {
	Notify(ctx context.Context, recipientIDs []string, title, message, sourceID string) error
}

// StoreSink is the production Sink: one persisted notification per recipient.
type StoreSink struct {
	store Store
}

func NewStoreSink(store Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Notify(ctx context.Context, recipientIDs []string, title, message, sourceID string) error {
	for _, rid := range recipientIDs {
		n := Notification{
			ID:          uuid.NewString(),
			RecipientID: rid,
			Title:       title,
			Message:     message,
			SourceID:    sourceID,
			CreatedAt:   time.Now(),
		}
		if err := s.store.Insert(ctx, n); err != nil {
			return fmt.Errorf("delivering notification to %s: %w", rid, err)
		}
	}
	return nil
}

// =============================================================================
// EMAIL - Contract only; transport internals live elsewhere
// =============================================================================

// Mailer dispatches an email. Implementations own transport and templating
// of the envelope; callers only hand over recipient and content.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
