package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"smartbot-backend/internal/config"
)

// GeminiConnector opens chat sessions on the Gemini API. The underlying client
// is created on first Connect and shared by every session it hands out.
type GeminiConnector struct {
	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiConnector() *GeminiConnector {
	return &GeminiConnector{}
}

func (c *GeminiConnector) Connect(ctx context.Context, cred config.Credential, cfg SessionConfig) (Session, error) {
	client, err := c.getClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	model := newModel(client, cfg)
	return &geminiSession{
		id:    uuid.New(),
		model: model,
		chat:  model.StartChat(),
	}, nil
}

// newModel applies cfg to a fresh model handle. The handle is not touched
// again once a chat has been started on it.
func newModel(client *genai.Client, cfg SessionConfig) *genai.GenerativeModel {
	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.SystemInstruction)},
	}
	return model
}

func (c *GeminiConnector) getClient(ctx context.Context, cred config.Credential) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cred.Value()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

func (c *GeminiConnector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

type geminiSession struct {
	id    uuid.UUID
	model *genai.GenerativeModel

	// ChatSession appends to its history on every send
	mu   sync.Mutex
	chat *genai.ChatSession
}

func (s *geminiSession) ID() uuid.UUID {
	return s.id
}

func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", err
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
