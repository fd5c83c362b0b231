package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Chat lifecycle events, mirrored to the external bus best-effort.

const (
	TypeChatCreated   = "CHAT_CREATED"
	TypeChatRenamed   = "CHAT_RENAMED"
	TypeChatDeleted   = "CHAT_DELETED"
	TypeChatConversed = "CHAT_CONVERSED"
)

func NewChatEvent(eventType string, userId, chatId uuid.UUID) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"chat_id": chatId.String(),
		},
		OccurredAt: time.Now(),
	}
}
