// Package events defines the notification bus for event lifecycle changes.
package events

import (
	"context"
	"time"

	"github.com/magoslab/calmirror/internal/model"
)

// Topic constants. Subjects are hierarchical so consumers can subscribe with
// wildcards ("calmirror.event.>" for all lifecycle changes).
const (
	TopicEventCreated   = "calmirror.event.created"
	TopicEventChanged   = "calmirror.event.changed"
	TopicEventCancelled = "calmirror.event.cancelled"
	TopicEventRevived   = "calmirror.event.revived"
	TopicEventConfirmed = "calmirror.event.confirmed"
	TopicEventArchived  = "calmirror.event.archived"

	TopicSyncCompleted = "calmirror.sync.completed"
)

// Payload types

type EventCreated struct {
	Event *model.Event `json:"event"`
}

// StatusChanged carries one lifecycle transition. It is the payload for the
// changed, cancelled, revived, and archived topics.
type StatusChanged struct {
	EventID string       `json:"event_id"`
	From    model.Status `json:"from"`
	To      model.Status `json:"to"`
}

type EventConfirmed struct {
	Event *model.Event `json:"event"`
}

type SyncCompleted struct {
	Fetched     int       `json:"fetched"`
	Upserts     int       `json:"upserts"`
	Transitions int       `json:"transitions"`
	At          time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// TransitionTopic maps a transition's destination status to its bus topic.
func TransitionTopic(to model.Status) string {
	switch to {
	case model.StatusNew:
		return TopicEventRevived
	case model.StatusChanged:
		return TopicEventChanged
	case model.StatusCancelled:
		return TopicEventCancelled
	case model.StatusCompleted, model.StatusMissed:
		return TopicEventArchived
	case model.StatusConfirmed:
		return TopicEventConfirmed
	}
	return TopicEventChanged
}
