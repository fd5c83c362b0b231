package model

import "github.com/google/uuid"

// ChatNotification is pushed over the websocket hub so clients know to
// refetch (e.g. after a background auto-title rename).
type ChatNotification struct {
	Event  string    `json:"event"` // "chat.renamed"
	ChatId uuid.UUID `json:"chatId"`
	Name   string    `json:"name,omitempty"`
}

const ChatNotificationRenamed = "chat.renamed"
