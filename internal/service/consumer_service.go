package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService names a chat session from its first exchange. It runs off
// the in-process bus so the converse round-trip never waits on a second
// model call.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	hub         *websocket.Hub
	natsPub     *pktNats.Publisher // nil when NATS is unreachable
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	hub *websocket.Hub,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		hub:         hub,
		natsPub:     natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal title message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: payload.ChatSessionId},
		specification.OwnedBy{UserID: payload.UserId},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.ChatSessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if session == nil {
		log.Printf("[WARN] Session %s gone before titling", payload.ChatSessionId)
		msg.Ack() // Deleted already? Ack.
		return
	}

	// A manual rename always wins over auto-titling.
	if session.Name != constant.DefaultChatSessionName || len(session.Messages) < 2 {
		msg.Ack()
		return
	}

	prompt := fmt.Sprintf(constant.TitlePromptTemplate,
		session.Messages[0].Content,
		session.Messages[1].Content,
	)

	title, err := cs.llmProvider.Generate(ctx, prompt, llm.WithMaxTokens(24))
	if err != nil {
		log.Printf("[ERROR] Title generation failed for %s: %v", payload.ChatSessionId, err)
		msg.Ack() // Not worth retrying; the placeholder name stays.
		return
	}
	title = sanitizeTitle(title)
	if title == "" {
		msg.Ack()
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-check under the transaction; the user may have renamed meanwhile.
	session, err = uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: payload.ChatSessionId},
		specification.OwnedBy{UserID: payload.UserId},
	)
	if err != nil || session == nil || session.Name != constant.DefaultChatSessionName {
		msg.Ack()
		return
	}

	session.Name = title
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		log.Printf("[ERROR] Failed to save generated title: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit title rename: %v", err)
		msg.Nack()
		return
	}

	if cs.hub != nil {
		cs.hub.Send(payload.UserId, model.ChatNotification{
			Event:  model.ChatNotificationRenamed,
			ChatId: payload.ChatSessionId,
			Name:   title,
		})
	}

	if cs.natsPub != nil {
		if err := cs.natsPub.Publish(ctx, events.NewChatEvent(events.TypeChatRenamed, payload.UserId, payload.ChatSessionId)); err != nil {
			log.Printf("[WARN] Failed to mirror rename event: %v", err)
		}
	}

	log.Printf("[INFO] Session %s titled %q", payload.ChatSessionId, title)
	msg.Ack()
}

func sanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	// Truncate on rune boundaries so multi-byte output stays valid UTF-8.
	const maxRunes = 80
	if runes := []rune(title); len(runes) > maxRunes {
		title = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return title
}
