package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "deck:session-events"

// RedisEventLogger appends events to a Redis stream.
type RedisEventLogger struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisEventLogger creates a stream-backed logger. An empty stream uses
// DefaultStream.
func NewRedisEventLogger(client *redis.Client, stream string) *RedisEventLogger {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisEventLogger{client: client, stream: stream, maxLen: 10000}
}

func (l *RedisEventLogger) LogEvent(event Event) error {
	if l == nil || l.client == nil {
		return fmt.Errorf("event logger client is nil")
	}
	if event.EventType == "" {
		return fmt.Errorf("event_type is required")
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	err = l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: l.stream,
		MaxLen: l.maxLen,
		Approx: true,
		Values: map[string]any{
			"session_id": event.SessionID,
			"deck_id":    event.DeckID,
			"event_type": event.EventType,
			"data":       string(data),
			"created_at": createdAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
