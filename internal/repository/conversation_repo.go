package repository

import (
	"sync"

	"smartbot-backend/internal/models"
)

// ConversationRepo keeps the widget conversation in memory, in insertion
// order. It is not persisted.
type ConversationRepo struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{}
}

func (r *ConversationRepo) Append(msg models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// List returns a copy of the conversation.
func (r *ConversationRepo) List() []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *ConversationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

func (r *ConversationRepo) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
