package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smartbot-backend/internal/models"
)

const (
	// Time allowed to write one message to the peer.
	writeWait = 10 * time.Second

	// Events queued per client before it is dropped as too slow.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conversationID uuid.UUID
	conn           *websocket.Conn
	send           chan []byte
}

// Hub fans conversation events out to the widgets watching each
// conversation. Broadcasting never waits on a client; each client has its
// own writer goroutine and is dropped when its queue overflows.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
	}
}

// HandleWebSocket expects ?conversation=<id> as returned by the chat API.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.URL.Query().Get("conversation"))
	if err != nil {
		http.Error(w, "conversation query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conversationID: conversationID,
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.conversationID]
	if !ok {
		conns = make(map[*client]struct{})
		h.clients[c.conversationID] = conns
	}
	conns[c] = struct{}{}
	log.Printf("WebSocket connected: conversation %s (total: %d)", c.conversationID, len(conns))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	h.mu.Unlock()

	c.conn.Close()
	if removed {
		log.Printf("WebSocket disconnected: conversation %s", c.conversationID)
	}
}

// removeLocked detaches c and closes its queue. Callers hold h.mu.
func (h *Hub) removeLocked(c *client) bool {
	conns := h.clients[c.conversationID]
	if _, ok := conns[c]; !ok {
		return false
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.conversationID)
	}
	close(c.send)
	return true
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("WebSocket write failed: %v", err)
			h.unregister(c)
			return
		}
	}
	c.conn.Close()
}

// Broadcast queues msg for every client of msg.ConversationID.
func (h *Hub) Broadcast(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("WebSocket broadcast: failed to encode %s event: %v", msg.Type, err)
		return
	}
	h.deliver(msg.ConversationID, data)
}

func (h *Hub) deliver(conversationID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[conversationID] {
		select {
		case c.send <- data:
		default:
			log.Printf("WebSocket client too slow, dropping: conversation %s", conversationID)
			h.removeLocked(c)
			c.conn.Close()
		}
	}
}

// ConnectionCount reports the number of live widget connections.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
