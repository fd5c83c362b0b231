package service

import (
	"context"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// IChatService defines the chat service interface
type IChatService interface {
	Create(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, request *dto.RenameChatRequest) (*dto.ChatSessionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, request *dto.DeleteChatRequest) error
	Converse(ctx context.Context, userId uuid.UUID, request *dto.ConverseRequest) (*dto.MessageResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	publisher   IPublisherService
	natsPub     *pktNats.Publisher // nil when NATS is unreachable
	logger      logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	natsPub *pktNats.Publisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		publisher:   publisher,
		natsPub:     natsPub,
		logger:      sysLogger,
	}
}

func (cs *chatService) Create(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      constant.DefaultChatSessionName,
		Messages:  []entity.Message{},
		CreatedAt: time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	cs.mirrorEvent(ctx, events.TypeChatCreated, userId, session.Id)

	return chatSessionToResponse(&session), nil
}

func (cs *chatService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, chatSessionToResponse(s))
	}
	return response, nil
}

func (cs *chatService) Rename(ctx context.Context, userId uuid.UUID, request *dto.RenameChatRequest) (*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Chat not found")
	}

	session.Name = request.Name
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.mirrorEvent(ctx, events.TypeChatRenamed, userId, session.Id)

	return chatSessionToResponse(session), nil
}

func (cs *chatService) Delete(ctx context.Context, userId uuid.UUID, request *dto.DeleteChatRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.ChatSessionRepository().Delete(ctx,
		specification.ByID{ID: request.ChatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if rows == 0 {
		return serverutils.NewNotFoundError("Chat not found")
	}

	cs.mirrorEvent(ctx, events.TypeChatDeleted, userId, request.ChatId)

	return nil
}

// Converse sends the prompt to the model and appends the user/assistant pair
// in one transaction. Nothing is persisted when the gateway call fails, so
// the history never holds an unanswered prompt.
func (cs *chatService) Converse(ctx context.Context, userId uuid.UUID, request *dto.ConverseRequest) (*dto.MessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Chat not found")
	}

	userMessage := entity.Message{
		Role:      constant.ChatMessageRoleUser,
		Content:   request.Prompt,
		Timestamp: time.Now(),
	}

	// The prompt goes to the model in isolation, without prior history.
	reply, err := cs.llmProvider.Generate(ctx, request.Prompt)
	if err != nil {
		cs.logger.Error("ChatService", "Completion call failed", map[string]interface{}{
			"chat_id": request.ChatId,
			"error":   err.Error(),
		})
		return nil, serverutils.NewInternalError("AI response was empty or invalid")
	}

	assistantMessage := entity.Message{
		Role:      constant.ChatMessageRoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}

	firstExchange := len(session.Messages) == 0 && session.Name == constant.DefaultChatSessionName

	if err := cs.appendPair(ctx, uow, userId, request.ChatId, userMessage, assistantMessage); err != nil {
		return nil, err
	}

	cs.mirrorEvent(ctx, events.TypeChatConversed, userId, request.ChatId)

	if firstExchange && cs.publisher != nil {
		if err := cs.publisher.PublishTitleGeneration(ctx, request.ChatId, userId); err != nil {
			cs.logger.Warn("ChatService", "Failed to publish title event", map[string]interface{}{
				"chat_id": request.ChatId,
				"error":   err.Error(),
			})
		}
	}

	return &dto.MessageResponse{
		Role:      assistantMessage.Role,
		Content:   assistantMessage.Content,
		Timestamp: assistantMessage.Timestamp.UnixMilli(),
	}, nil
}

// appendPair re-reads the session inside the transaction so concurrent
// appends serialize at the store instead of clobbering each other.
func (cs *chatService) appendPair(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID, messages ...entity.Message) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.NewNotFoundError("Chat not found")
	}

	session.Messages = append(session.Messages, messages...)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	return uow.Commit()
}

func (cs *chatService) mirrorEvent(ctx context.Context, eventType string, userId, chatId uuid.UUID) {
	if cs.natsPub == nil {
		return
	}
	if err := cs.natsPub.Publish(ctx, events.NewChatEvent(eventType, userId, chatId)); err != nil {
		cs.logger.Warn("ChatService", "Failed to mirror event to NATS", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func chatSessionToResponse(s *entity.ChatSession) *dto.ChatSessionResponse {
	messages := make([]dto.MessageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, dto.MessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp.UnixMilli(),
		})
	}

	updatedAt := s.CreatedAt
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &dto.ChatSessionResponse{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
