package queue

import (
	"context"
	"time"
)

// EventKind identifies a lifecycle transition.
type EventKind string

const (
	EventRegistered EventKind = "registered"
	EventReviewed   EventKind = "reviewed"
	EventPromoted   EventKind = "promoted"
	EventDemoted    EventKind = "demoted"
	EventArchived   EventKind = "archived"
	EventRestored   EventKind = "restored"
)

// Event is the advisory notification emitted after a lifecycle mutation
// commits. Consumers (freshness dashboards, task systems) subscribe out of
// band; a lost event never affects registry correctness.
type Event struct {
	Kind       EventKind         `json:"kind"`
	DocumentID string            `json:"document_id"`
	At         time.Time         `json:"at"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// Sink delivers lifecycle events to external consumers.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
