package models

import "github.com/google/uuid"

// WSMessage types pushed to widget clients
const (
	WSTypeMessage = "message"
	WSTypeReset   = "reset"
)

// WSMessage is scoped to one conversation; hubs only deliver it to clients
// watching that conversation.
type WSMessage struct {
	Type           string      `json:"type"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Payload        interface{} `json:"payload,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
