// Package events publishes deliberation change notifications.
package events

import (
	"context"
	"time"
)

// Type names what happened to the archive.
type Type string

const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
	TypeDeleted Type = "deleted"
	TypeCleared Type = "cleared"
)

const (
	SubjectArchiveCleared = "deliberate.archive.cleared"
	SubjectAll            = "deliberate.>"

	StreamName   = "DELIBERATE_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// SubjectDeliberation returns the subject for a change to one deliberation.
func SubjectDeliberation(id string, t Type) string {
	return "deliberate.deliberation." + id + "." + string(t)
}

// Event describes one committed change.
type Event struct {
	Type           Type      `json:"type"`
	DeliberationID string    `json:"deliberation_id,omitempty"`
	Name           string    `json:"name,omitempty"`
	Count          int       `json:"count"` // deliberations in the archive after the change
	At             time.Time `json:"at"`
}

// Subject returns the subject the event is published on.
func (e Event) Subject() string {
	if e.Type == TypeCleared {
		return SubjectArchiveCleared
	}
	return SubjectDeliberation(e.DeliberationID, e.Type)
}

// Publisher delivers events. Publishing is best effort: callers log
// failures and carry on, since the archive is already committed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
