package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher is the subset of the go-redis client used to fan out events.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NewRedisHandler returns a handler that publishes events as JSON on channel.
func NewRedisHandler(client RedisPublisher, channel string) EventHandler {
	return func(ctx context.Context, event Event) error {
		body, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", event.ID, err)
		}
		if err := client.Publish(ctx, channel, body).Err(); err != nil {
			return fmt.Errorf("publish event %s: %w", event.ID, err)
		}
		return nil
	}
}
