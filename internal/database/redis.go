package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds separate connections for publishing and for the
// long-lived subscription.
type RedisClients struct {
	Publisher  *redis.Client
	Subscriber *redis.Client
}

func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pubClient := redis.NewClient(opt)
	if err := pubClient.Ping(ctx).Err(); err != nil {
		pubClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (publisher): %w", err)
	}

	subOpt := *opt
	subClient := redis.NewClient(&subOpt)
	if err := subClient.Ping(ctx).Err(); err != nil {
		pubClient.Close()
		subClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (subscriber): %w", err)
	}

	return &RedisClients{
		Publisher:  pubClient,
		Subscriber: subClient,
	}, nil
}

func (r *RedisClients) Close() {
	r.Publisher.Close()
	r.Subscriber.Close()
}
