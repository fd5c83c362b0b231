package dto

import (
	"time"

	"github.com/google/uuid"
)

// Wire shapes follow the original client contract: camelCase fields,
// message timestamps as unix milliseconds.

type MessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID         `json:"id"`
	UserId    uuid.UUID         `json:"userId"`
	Name      string            `json:"name"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type RenameChatRequest struct {
	ChatId uuid.UUID `json:"chatId" validate:"required"`
	Name   string    `json:"name" validate:"required"`
}

type DeleteChatRequest struct {
	ChatId uuid.UUID `json:"chatId" validate:"required"`
}

type ConverseRequest struct {
	ChatId uuid.UUID `json:"chatId" validate:"required"`
	Prompt string    `json:"prompt" validate:"required"`
}

// PublishTitleMessage is the payload of the in-process title generation
// event published after a session's first completed exchange.
type PublishTitleMessage struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	UserId        uuid.UUID `json:"user_id"`
}
