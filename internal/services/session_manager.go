package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"smartbot-backend/internal/config"
)

// CredentialSource resolves the API credential. config.ResolveCredential is
// the production source.
type CredentialSource func() (config.Credential, error)

var errNilSession = errors.New("connector returned no session")

// SessionManager owns at most one live Session. The session is created
// lazily by Ensure and discarded by Reset.
type SessionManager struct {
	mu        sync.Mutex
	resolve   CredentialSource
	connector Connector
	cfg       SessionConfig

	session  Session
	cred     config.Credential
	lastUsed time.Time

	now func() time.Time
}

func NewSessionManager(resolve CredentialSource, connector Connector, cfg SessionConfig) *SessionManager {
	return &SessionManager{
		resolve:   resolve,
		connector: connector,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Ensure returns the live session, creating it if none exists. A failed
// attempt leaves the manager empty so the next call starts over.
func (m *SessionManager) Ensure(ctx context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.lastUsed = m.now()
		return m.session, nil
	}

	cred, err := m.resolve()
	if err != nil {
		return nil, &InitializationError{Err: err}
	}
	m.cred = cred

	session, err := m.connector.Connect(ctx, cred, m.cfg)
	if err != nil {
		return nil, &InitializationError{Err: err}
	}
	if session == nil {
		return nil, &InitializationError{Err: errNilSession}
	}

	m.session = session
	m.lastUsed = m.now()
	log.Printf("✓ Chat session %s created (model=%s)", session.ID(), m.cfg.Model)
	return session, nil
}

// Reset drops the current session. The remote side has no close call.
func (m *SessionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *SessionManager) resetLocked() {
	if m.session == nil {
		return
	}
	log.Printf("Chat session %s discarded", m.session.ID())
	m.session = nil
}

// Current returns the live session without creating one.
func (m *SessionManager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.session != nil
}

// ResetIfIdle discards the session when it has not been used for maxIdle.
func (m *SessionManager) ResetIfIdle(maxIdle time.Duration, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || maxIdle <= 0 {
		return false
	}
	if now.Sub(m.lastUsed) < maxIdle {
		return false
	}
	m.resetLocked()
	return true
}

// Redact removes the credential from s so it can be logged.
func (m *SessionManager) Redact(s string) string {
	m.mu.Lock()
	secret := m.cred.Value()
	m.mu.Unlock()

	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, m.cred.String())
}
