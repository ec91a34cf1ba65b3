package policy

import (
	"context"
	"fmt"
)

// =============================================================================
// DOCUMENT - Partial policy record (absent field = fall through)
// =============================================================================

// Scope for the global document; product documents use the product line name.
const GlobalScope = "global"

// Document is a partial policy as stored: every leaf is a pointer, nil means
// "fall through to the next layer". Groups may be present with only some
// leaves set; the merge is per leaf, not per group.
type Document struct {
	Absence       *AbsenceDoc       `json:"absence,omitempty"`
	AutoClose     *AutoCloseDoc     `json:"autoClose,omitempty"`
	Lunch         *LunchDoc         `json:"lunch,omitempty"`
	Comments      *CommentDoc       `json:"comments,omitempty"`
	Notifications *NotificationDoc  `json:"notifications,omitempty"`
	Slack         *SlackDoc         `json:"slack,omitempty"`

	SevereDelayThresholdMinutes *int `json:"severeDelayThresholdMinutes,omitempty"`
}

type AbsenceDoc struct {
	NoEntryAfterMinutes *int `json:"noEntryAfterMinutes,omitempty"`
	NoExitAfterMinutes  *int `json:"noExitAfterMinutes,omitempty"`
}

type AutoCloseDoc struct {
	CloseAfterMinutes *int  `json:"closeAfterMinutes,omitempty"`
	MarkAsAbsent      *bool `json:"markAsAbsent,omitempty"`
}

type LunchDoc struct {
	MaxDurationMinutes *int `json:"maxDurationMinutes,omitempty"`
}

type CommentDoc struct {
	RequireOnLateArrival    *bool `json:"requireOnLateArrival,omitempty"`
	RequireOnLongLunch      *bool `json:"requireOnLongLunch,omitempty"`
	RequireOnEarlyDeparture *bool `json:"requireOnEarlyDeparture,omitempty"`
	MinCommentLength        *int  `json:"minCommentLength,omitempty"`
}

type NotificationDoc struct {
	NotifyUser       *bool `json:"notifyUser,omitempty"`
	NotifySupervisor *bool `json:"notifySupervisor,omitempty"`
	NotifyAdmin      *bool `json:"notifyAdmin,omitempty"`
	OnLateEntry      *bool `json:"onLateEntry,omitempty"`
	OnLongLunch      *bool `json:"onLongLunch,omitempty"`
	OnEarlyExit      *bool `json:"onEarlyExit,omitempty"`
	OnAbsence        *bool `json:"onAbsence,omitempty"`
}

type SlackDoc struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	WebhookURL  *string `json:"webhookUrl,omitempty"`
	OnLateEntry *bool   `json:"onLateEntry,omitempty"`
	OnLongLunch *bool   `json:"onLongLunch,omitempty"`
	OnEarlyExit *bool   `json:"onEarlyExit,omitempty"`
	OnAbsence   *bool   `json:"onAbsence,omitempty"`
}

// DocumentStore persists policy documents keyed by scope: GlobalScope or a
// product line name. Get returns (nil, nil) when no document exists for the
// scope; absence is a valid state, not an error.
type DocumentStore interface {
	Get(ctx context.Context, scope string) (*Document, error)
	Put(ctx context.Context, scope string, doc Document) error
}

// =============================================================================
// RESOLVER - Field-level fallback: product > global > defaults
// =============================================================================

type Resolver struct {
	store DocumentStore
}

func NewResolver(store DocumentStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve merges the product-scoped document over the global document over
// the hard defaults and returns a fully-populated Policy.
func (r *Resolver) Resolve(ctx context.Context, productLine string) (Policy, error) {
	global, err := r.store.Get(ctx, GlobalScope)
	if err != nil {
		return Policy{}, fmt.Errorf("fetching global policy document: %w", err)
	}
	product, err := r.store.Get(ctx, productLine)
	if err != nil {
		return Policy{}, fmt.Errorf("fetching policy document for %s: %w", productLine, err)
	}

	p := Defaults()
	overlay(&p, global)
	overlay(&p, product)
	return p, nil
}

// overlay applies every present leaf of doc onto p.
func overlay(p *Policy, doc *Document) {
	if doc == nil {
		return
	}
	if a := doc.Absence; a != nil {
		setInt(&p.Absence.NoEntryAfterMinutes, a.NoEntryAfterMinutes)
		setInt(&p.Absence.NoExitAfterMinutes, a.NoExitAfterMinutes)
	}
	if a := doc.AutoClose; a != nil {
		setInt(&p.AutoClose.CloseAfterMinutes, a.CloseAfterMinutes)
		setBool(&p.AutoClose.MarkAsAbsent, a.MarkAsAbsent)
	}
	if l := doc.Lunch; l != nil {
		setInt(&p.Lunch.MaxDurationMinutes, l.MaxDurationMinutes)
	}
	if c := doc.Comments; c != nil {
		setBool(&p.Comments.RequireOnLateArrival, c.RequireOnLateArrival)
		setBool(&p.Comments.RequireOnLongLunch, c.RequireOnLongLunch)
		setBool(&p.Comments.RequireOnEarlyDeparture, c.RequireOnEarlyDeparture)
		setInt(&p.Comments.MinCommentLength, c.MinCommentLength)
	}
	if n := doc.Notifications; n != nil {
		setBool(&p.Notifications.NotifyUser, n.NotifyUser)
		setBool(&p.Notifications.NotifySupervisor, n.NotifySupervisor)
		setBool(&p.Notifications.NotifyAdmin, n.NotifyAdmin)
		setBool(&p.Notifications.OnLateEntry, n.OnLateEntry)
		setBool(&p.Notifications.OnLongLunch, n.OnLongLunch)
		setBool(&p.Notifications.OnEarlyExit, n.OnEarlyExit)
		setBool(&p.Notifications.OnAbsence, n.OnAbsence)
	}
	if s := doc.Slack; s != nil {
		setBool(&p.Slack.Enabled, s.Enabled)
		setString(&p.Slack.WebhookURL, s.WebhookURL)
		setBool(&p.Slack.OnLateEntry, s.OnLateEntry)
		setBool(&p.Slack.OnLongLunch, s.OnLongLunch)
		setBool(&p.Slack.OnEarlyExit, s.OnEarlyExit)
		setBool(&p.Slack.OnAbsence, s.OnAbsence)
	}
	setInt(&p.SevereDelayThresholdMinutes, doc.SevereDelayThresholdMinutes)
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
