package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one conversation turn. Messages only live embedded inside a
// ChatSession and are never addressed or mutated individually.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
