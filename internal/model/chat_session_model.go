package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageData is the jsonb shape of one embedded message. Timestamp is unix
// milliseconds to match the wire format.
type MessageData struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ChatSession struct {
	Id        uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID                        `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Name      string                           `gorm:"type:text;not null"`
	Messages  datatypes.JSONSlice[MessageData] `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time                        `gorm:"autoCreateTime"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt                   `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
