package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"smartbot-backend/internal/models"
)

// InitialGreeting opens every conversation.
const InitialGreeting = `안녕하세요! **Ki's Smart Bot Pro** 입니다. 🙌

구글 광고 대행, AI 이미지 제작, 마케팅 월 대행 등 궁금하신 점을 편하게 물어보세요.
정확한 견적은 크몽 메시지로 안내해 드립니다.`

// Quick prompts offered while the conversation is still short.
var suggestedPrompts = []string{
	"구글 광고 대행 견적이 궁금해요",
	"AI 이미지 제작 가격 알려주세요",
	"마케팅 1달 대행은 얼마인가요?",
}

const suggestionThreshold = 3

type conversationStore interface {
	Append(msg models.Message)
	List() []models.Message
	Len() int
	Clear()
}

type replier interface {
	Send(ctx context.Context, text string) string
}

type sessionResetter interface {
	Reset()
}

// Broadcaster pushes conversation events to connected widget clients.
// Implementations must not block on slow clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg models.WSMessage)
}

// ChatService drives one widget conversation: it validates input, allows a
// single message in flight and records both sides of every turn.
type ChatService struct {
	id          uuid.UUID
	store       conversationStore
	exchange    replier
	sessions    sessionResetter
	broadcaster Broadcaster

	// single in-flight slot
	busy chan struct{}
}

func NewChatService(store conversationStore, exchange replier, sessions sessionResetter, broadcaster Broadcaster) *ChatService {
	s := &ChatService{
		id:          uuid.New(),
		store:       store,
		exchange:    exchange,
		sessions:    sessions,
		broadcaster: broadcaster,
		busy:        make(chan struct{}, 1),
	}
	if store.Len() == 0 {
		store.Append(models.NewMessage(models.RoleModel, InitialGreeting))
	}
	return s
}

// Send records the user's text, asks the model and records its reply.
func (s *ChatService) Send(ctx context.Context, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}

	select {
	case s.busy <- struct{}{}:
	default:
		return models.Message{}, &BusyError{Message: "A reply is still being generated"}
	}
	defer func() { <-s.busy }()

	userMsg := models.NewMessage(models.RoleUser, text)
	s.record(ctx, userMsg)

	reply := s.exchange.Send(ctx, text)

	botMsg := models.NewMessage(models.RoleModel, reply)
	s.record(ctx, botMsg)

	return botMsg, nil
}

func (s *ChatService) record(ctx context.Context, msg models.Message) {
	s.store.Append(msg)
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, models.WSMessage{Type: models.WSTypeMessage, ConversationID: s.id, Payload: msg})
	}
}

// ConversationID identifies this conversation to widget clients. It is
// stable across Reset.
func (s *ChatService) ConversationID() uuid.UUID {
	return s.id
}

func (s *ChatService) Messages() []models.Message {
	return s.store.List()
}

// Suggestions returns quick prompts until the conversation has grown.
func (s *ChatService) Suggestions() []string {
	if s.store.Len() >= suggestionThreshold {
		return []string{}
	}
	out := make([]string, len(suggestedPrompts))
	copy(out, suggestedPrompts)
	return out
}

func (s *ChatService) Busy() bool {
	return len(s.busy) > 0
}

// Reset starts a fresh conversation with a new remote session.
func (s *ChatService) Reset(ctx context.Context) error {
	select {
	case s.busy <- struct{}{}:
	default:
		return &BusyError{Message: "A reply is still being generated"}
	}
	defer func() { <-s.busy }()

	s.sessions.Reset()
	s.store.Clear()
	s.store.Append(models.NewMessage(models.RoleModel, InitialGreeting))

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, models.WSMessage{Type: models.WSTypeReset, ConversationID: s.id})
	}
	return nil
}
