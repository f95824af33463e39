package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisSource delivers feed events published on a Redis pub/sub channel.
type RedisSource struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisSource creates a source using its own Redis client.
func NewRedisSource(addr, password string, db int, channel string) *RedisSource {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSource{
		client:  rdb,
		channel: channel,
		logger:  slog.Default().With("component", "feed", "source", "redis", "channel", channel),
	}
}

// Run delivers events until ctx is done or the subscription breaks.
func (s *RedisSource) Run(ctx context.Context, handler Handler) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s failed: %w", s.channel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", s.channel)
			}
			dispatch(s.logger, handler, []byte(msg.Payload))
		}
	}
}

// Publish sends a payload to the channel.
func (s *RedisSource) Publish(ctx context.Context, payload []byte) error {
	return s.client.Publish(ctx, s.channel, payload).Err()
}

// Close releases the Redis client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
