package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// User-facing replies used in place of any internal failure.
const (
	FallbackTemporary = "죄송합니다. 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	FallbackContact   = "죄송합니다. 시스템 문제로 응답할 수 없습니다. 상단의 연락처로 직접 문의 부탁드립니다."
)

type sessionProvider interface {
	Ensure(ctx context.Context) (Session, error)
	Redact(s string) string
}

// MessageExchange performs one round trip per Send and always returns text
// that can be shown to the user.
type MessageExchange struct {
	sessions sessionProvider
	timeout  time.Duration
}

// NewMessageExchange builds an exchange. A zero timeout leaves the transport
// default in place.
func NewMessageExchange(sessions sessionProvider, timeout time.Duration) *MessageExchange {
	return &MessageExchange{sessions: sessions, timeout: timeout}
}

func (x *MessageExchange) Send(ctx context.Context, text string) string {
	reply, err := x.roundTrip(ctx, text)
	if err != nil {
		log.Printf("chat exchange error: %s", x.sessions.Redact(err.Error()))
		return FallbackContact
	}
	if strings.TrimSpace(reply) == "" {
		log.Println("WARNING: Gemini returned empty text. Using fallback.")
		return FallbackTemporary
	}
	return reply
}

func (x *MessageExchange) roundTrip(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = "", &TransportError{Err: fmt.Errorf("panic during send: %v", r)}
		}
	}()

	session, err := x.sessions.Ensure(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", &InitializationError{Err: errNilSession}
	}

	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}

	reply, err = session.Send(ctx, text)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	return reply, nil
}
