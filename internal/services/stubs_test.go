package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"smartbot-backend/internal/config"
)

type stubSession struct {
	id    uuid.UUID
	reply string
	err   error
	calls atomic.Int32

	mu       sync.Mutex
	received []string
}

func newStubSession(reply string, err error) *stubSession {
	return &stubSession{id: uuid.New(), reply: reply, err: err}
}

func (s *stubSession) ID() uuid.UUID { return s.id }

func (s *stubSession) Send(ctx context.Context, text string) (string, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.received = append(s.received, text)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// stubConnector hands out a new stubSession per Connect.
type stubConnector struct {
	reply   string
	err     error
	sendErr error

	calls    atomic.Int32
	lastCred config.Credential
	lastCfg  SessionConfig
	sessions []*stubSession
	mu       sync.Mutex
}

func (c *stubConnector) Connect(ctx context.Context, cred config.Credential, cfg SessionConfig) (Session, error) {
	c.calls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCred = cred
	c.lastCfg = cfg
	if c.err != nil {
		return nil, c.err
	}
	s := newStubSession(c.reply, c.sendErr)
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *stubConnector) totalSends() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int32
	for _, s := range c.sessions {
		n += s.calls.Load()
	}
	return n
}

func staticCredential(value string) CredentialSource {
	return func() (config.Credential, error) {
		return config.Credential(value), nil
	}
}

func missingCredential() CredentialSource {
	return func() (config.Credential, error) {
		return "", &config.ConfigurationError{Key: config.CredentialEnvKey, Reason: "is not set"}
	}
}
