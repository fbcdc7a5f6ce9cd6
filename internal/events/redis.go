package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/lift-api/internal/platform/logger"
)

// Publisher is the slice of the redis client the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisEmitter publishes events as JSON on a redis pub/sub channel.
type RedisEmitter struct {
	client  Publisher
	channel string
	logger  *slog.Logger
}

var _ EventEmitter = (*RedisEmitter)(nil)

// NewRedisEmitter creates an emitter publishing to channel.
func NewRedisEmitter(client Publisher, channel string, log *slog.Logger) (*RedisEmitter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisEmitter{
		client:  client,
		channel: channel,
		logger:  log.With(slog.String("component", "redis_event_emitter")),
	}, nil
}

// EmitEvent implements EventEmitter.
func (e *RedisEmitter) EmitEvent(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	log := logger.FromContextOrDefault(ctx, e.logger)
	receivers, err := e.client.Publish(ctx, e.channel, body).Result()
	if err != nil {
		log.Error("failed to publish event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	log.Debug("event published",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int64("receivers", receivers))
	return nil
}
