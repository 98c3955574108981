package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smartbot-backend/internal/models"
)

func dialHub(t *testing.T, srv *httptest.Server, conversationID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?conversation=" + conversationID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connections, got %d", n, h.ConnectionCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type event struct {
	Type           string         `json:"type"`
	ConversationID uuid.UUID      `json:"conversation_id"`
	Payload        models.Message `json:"payload"`
}

func readEvent(t *testing.T, conn *websocket.Conn) event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var got event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	return got
}

func expectNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected event: %s", data)
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conversation := uuid.New()
	a := dialHub(t, srv, conversation)
	b := dialHub(t, srv, conversation)
	waitForConnections(t, hub, 2)

	msg := models.NewMessage(models.RoleModel, "안녕하세요")
	hub.Broadcast(context.Background(), models.WSMessage{Type: models.WSTypeMessage, ConversationID: conversation, Payload: msg})

	for _, conn := range []*websocket.Conn{a, b} {
		got := readEvent(t, conn)
		if got.Type != models.WSTypeMessage || got.Payload.ID != msg.ID || got.Payload.Text != msg.Text {
			t.Fatalf("unexpected event: %+v", got)
		}
		if got.ConversationID != conversation {
			t.Fatalf("expected conversation %s, got %s", conversation, got.ConversationID)
		}
	}
}

func TestHub_ScopesEventsToConversation(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	mine, other := uuid.New(), uuid.New()
	watcher := dialHub(t, srv, mine)
	bystander := dialHub(t, srv, other)
	waitForConnections(t, hub, 2)

	hub.Broadcast(context.Background(), models.WSMessage{Type: models.WSTypeReset, ConversationID: mine})

	if got := readEvent(t, watcher); got.Type != models.WSTypeReset {
		t.Fatalf("expected reset event, got %+v", got)
	}
	expectNoEvent(t, bystander)
}

func TestHub_RequiresConversation(t *testing.T) {
	hub := NewHub()

	for _, query := range []string{"", "?conversation=not-a-uuid"} {
		rr := httptest.NewRecorder()
		hub.HandleWebSocket(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ws"+query, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %q, got %d", query, rr.Code)
		}
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn := dialHub(t, srv, uuid.New())
	waitForConnections(t, hub, 1)

	conn.Close()
	waitForConnections(t, hub, 0)
}

func TestHub_SlowClientIsDroppedWithoutBlocking(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conversation := uuid.New()
	dialHub(t, srv, conversation) // never reads
	healthyID := uuid.New()
	healthy := dialHub(t, srv, healthyID)
	waitForConnections(t, hub, 2)

	big := models.WSMessage{
		Type:           models.WSTypeMessage,
		ConversationID: conversation,
		Payload:        models.NewMessage(models.RoleUser, strings.Repeat("x", 1<<20)),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			hub.Broadcast(context.Background(), big)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Broadcast blocked on a client that stopped reading")
	}

	waitForConnections(t, hub, 1)

	hub.Broadcast(context.Background(), models.WSMessage{Type: models.WSTypeReset, ConversationID: healthyID})
	if got := readEvent(t, healthy); got.Type != models.WSTypeReset {
		t.Fatalf("other clients must keep receiving events, got %+v", got)
	}
}
