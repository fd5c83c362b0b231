package mapper

import (
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Messages:  m.MessagesToEntity(s.Messages),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Messages:  m.MessagesToModel(s.Messages),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers
// Stored timestamps are unix milliseconds (wire format); entities carry time.Time.

func (m *ChatMapper) MessagesToEntity(msgs datatypes.JSONSlice[model.MessageData]) []entity.Message {
	entities := make([]entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = entity.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: time.UnixMilli(msg.Timestamp),
		}
	}
	return entities
}

func (m *ChatMapper) MessagesToModel(msgs []entity.Message) datatypes.JSONSlice[model.MessageData] {
	models := make([]model.MessageData, len(msgs))
	for i, msg := range msgs {
		models[i] = model.MessageData{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.UnixMilli(),
		}
	}
	return datatypes.NewJSONSlice(models)
}
