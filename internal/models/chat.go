package models

import (
	"time"

	"github.com/google/uuid"
)

// Role tags who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is a single entry in the widget conversation. Messages are never
// mutated after creation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps a fresh ID and timestamp.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Reply          string    `json:"reply"`
	Messages       []Message `json:"messages"`
}

// ConversationResponse is the current state of the widget conversation.
type ConversationResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	Suggestions    []string  `json:"suggestions"`
	Busy           bool      `json:"busy"`
}
