package services

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"smartbot-backend/internal/config"
)

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("안녕"), genai.Text("하세요")}}},
			{Content: nil},
		},
	}

	if got := extractText(resp); got != "안녕하세요" {
		t.Fatalf("expected concatenated text, got %q", got)
	}
}

func TestExtractText_Empty(t *testing.T) {
	if got := extractText(nil); got != "" {
		t.Fatalf("expected empty text for nil response, got %q", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("expected empty text without candidates, got %q", got)
	}
}

func TestDefaultSessionConfig(t *testing.T) {
	cfg := DefaultSessionConfig("gemini-2.5-flash")

	if cfg.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == "" {
		t.Fatalf("expected a system instruction")
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model %q", cfg.Model)
	}
}

func TestGeminiConnector_CloseWithoutClient(t *testing.T) {
	c := NewGeminiConnector()
	c.Close()
	c.Close()
}

// Creating a client and a model does not reach the network, so a dummy key is
// enough to inspect what the session will be started with.
func TestGeminiConnector_ConfiguresModel(t *testing.T) {
	c := NewGeminiConnector()
	defer c.Close()

	cfg := DefaultSessionConfig("gemini-2.5-flash")
	session, err := c.Connect(context.Background(), config.Credential("test-key"), cfg)
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}

	gs, ok := session.(*geminiSession)
	if !ok {
		t.Fatalf("expected *geminiSession, got %T", session)
	}
	m := gs.model

	if m.Temperature == nil || *m.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7 on the model, got %v", m.Temperature)
	}
	if m.SystemInstruction == nil || len(m.SystemInstruction.Parts) != 1 {
		t.Fatalf("expected a single-part system instruction, got %+v", m.SystemInstruction)
	}
	if got, ok := m.SystemInstruction.Parts[0].(genai.Text); !ok || string(got) != SystemInstruction {
		t.Fatalf("unexpected system instruction %v", m.SystemInstruction.Parts[0])
	}
}

func TestGeminiConnector_SharesClientAcrossSessions(t *testing.T) {
	c := NewGeminiConnector()
	defer c.Close()

	cfg := DefaultSessionConfig("gemini-2.5-flash")
	first, err := c.Connect(context.Background(), config.Credential("test-key"), cfg)
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}
	client := c.client

	second, err := c.Connect(context.Background(), config.Credential("test-key"), cfg)
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}
	if c.client != client {
		t.Fatalf("expected the client to be reused")
	}
	if first.ID() == second.ID() {
		t.Fatalf("expected distinct session identities")
	}
}
