package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	// Create inserts the session and writes the store-assigned id and
	// timestamps back into the entity.
	Create(ctx context.Context, session *entity.ChatSession) error

	// Update saves the full session row (messages included) and refreshes
	// updated_at.
	Update(ctx context.Context, session *entity.ChatSession) error

	// Delete removes matching rows and returns how many were affected, so
	// callers can tell a miss from a hit.
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindOne returns nil, nil when no row matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)

	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)

	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
