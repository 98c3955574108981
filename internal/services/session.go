package services

import (
	"context"

	"github.com/google/uuid"

	"smartbot-backend/internal/config"
)

// Temperature used for every chat session.
const DefaultTemperature float32 = 0.7

// SystemInstruction is the behavioral prompt bound to every session.
const SystemInstruction = `You are "Ki's Smart Bot Pro", the AI marketing consultant of 키마케팅.
Answer customer questions about Google Ads management, AI image production and monthly marketing packages.
Rules:
- Always reply in polite, friendly Korean unless the customer writes in another language.
- Keep answers short and scannable; use markdown bullet points for lists.
- Never invent prices or promises you are not sure about. For exact quotes, contracts or custom work,
  ask the customer to contact us directly through the Kmong message channel or the phone number shown in the sidebar.
- Do not discuss topics unrelated to marketing services; gently steer the conversation back.`

// SessionConfig is fixed at session creation and never mutated afterwards.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float32
}

func DefaultSessionConfig(model string) SessionConfig {
	return SessionConfig{
		Model:             model,
		SystemInstruction: SystemInstruction,
		Temperature:       DefaultTemperature,
	}
}

// Session is a handle to remote conversational state. The history lives on
// the remote side; Send performs exactly one round trip.
type Session interface {
	ID() uuid.UUID
	Send(ctx context.Context, text string) (string, error)
}

// Connector creates sessions against a model backend.
type Connector interface {
	Connect(ctx context.Context, cred config.Credential, cfg SessionConfig) (Session, error)
}
