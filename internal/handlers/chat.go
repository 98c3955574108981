package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"smartbot-backend/internal/models"
)

// A chat message is a short sentence; anything larger is refused before decoding.
const maxChatBodyBytes = 16 << 10

type chatService interface {
	ConversationID() uuid.UUID
	Send(ctx context.Context, text string) (models.Message, error)
	Messages() []models.Message
	Suggestions() []string
	Busy() bool
	Reset(ctx context.Context) error
}

type ChatHandler struct {
	chat chatService
}

func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Conversation returns the messages exchanged so far.
func (h *ChatHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.conversation())
}

// SendMessage forwards the user's text to the model. Model failures come back
// as a normal reply; only bad input and concurrent sends are errors here.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("PAYLOAD_TOO_LARGE", "Message is too long", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply, err := h.chat.Send(r.Context(), req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		ConversationID: h.chat.ConversationID(),
		Reply:          reply.Text,
		Messages:       h.chat.Messages(),
	})
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.Reset(r.Context()); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.conversation())
}

func (h *ChatHandler) conversation() models.ConversationResponse {
	return models.ConversationResponse{
		ConversationID: h.chat.ConversationID(),
		Messages:       h.chat.Messages(),
		Suggestions:    h.chat.Suggestions(),
		Busy:           h.chat.Busy(),
	}
}
