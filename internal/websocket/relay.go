package websocket

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"smartbot-backend/internal/models"
)

// UpdatesChannel prefixes the per-conversation Redis channels
// (chat_updates:<conversation id>).
const UpdatesChannel = "chat_updates"

const publishTimeout = 2 * time.Second

func conversationChannel(id uuid.UUID) string {
	return UpdatesChannel + ":" + id.String()
}

// RedisRelay publishes conversation events to Redis so that a widget whose
// websocket landed on another replica still receives the events of the
// conversation it is watching. Events are only delivered to clients
// subscribed to the same conversation ID.
type RedisRelay struct {
	pub *redis.Client
	sub *redis.Client
	hub *Hub

	ready chan struct{}
}

func NewRedisRelay(pub, sub *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{pub: pub, sub: sub, hub: hub, ready: make(chan struct{})}
}

// Ready is closed once Run holds an active subscription.
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Broadcast publishes msg. If Redis is unreachable the event is still
// delivered to local connections.
func (r *RedisRelay) Broadcast(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("relay: failed to encode %s event: %v", msg.Type, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.pub.Publish(ctx, conversationChannel(msg.ConversationID), string(data)).Err(); err != nil {
		log.Printf("relay: publish failed, delivering locally: %v", err)
		r.hub.deliver(msg.ConversationID, data)
	}
}

// Run forwards published events to the hub until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) {
	pubsub := r.sub.PSubscribe(ctx, UpdatesChannel+":*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() == nil {
			log.Printf("relay: subscribe failed: %v", err)
		}
		return
	}
	close(r.ready)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			id, err := uuid.Parse(strings.TrimPrefix(msg.Channel, UpdatesChannel+":"))
			if err != nil {
				log.Printf("relay: ignoring event on %s", msg.Channel)
				continue
			}
			r.hub.deliver(id, []byte(msg.Payload))
		}
	}
}
