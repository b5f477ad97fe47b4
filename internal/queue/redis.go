package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Queue on top of a single Redis list, using a
// reliable-delivery pattern: BLMOVE the message into a processing list
// (one list shared by every consumer of the queue) so a crashed worker's
// in-flight message is never silently lost, then LREM it on ack.
type RedisQueue struct {
	client     *redis.Client
	pendingKey string
	procKey    string
}

// NewRedisQueue builds a RedisQueue for the "to-download" list named name.
func NewRedisQueue(redisURL, name string) (*RedisQueue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisQueue{
		client:     redis.NewClient(opt),
		pendingKey: name + ":pending",
		procKey:    name + ":processing",
	}, nil
}

func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal queue message: %w", err)
	}
	if err := q.client.LPush(ctx, q.pendingKey, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", q.pendingKey, err)
	}
	return nil
}

// Consume blocks (up to 30s) for the next message, moving it into the
// processing list. The returned ack function removes it from the
// processing list; failing to call ack leaves the message in the processing
// list. Nothing in this package moves it back to the pending list.
func (q *RedisQueue) Consume(ctx context.Context) (Message, func(ctx context.Context) error, error) {
	payload, err := q.client.BLMove(ctx, q.pendingKey, q.procKey, "RIGHT", "LEFT", 30*time.Second).Result()
	if err == redis.Nil {
		return Message{}, nil, nil
	}
	if err != nil {
		return Message{}, nil, fmt.Errorf("consume from %s: %w", q.pendingKey, err)
	}

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return Message{}, nil, fmt.Errorf("unmarshal queue message: %w", err)
	}

	ack := func(ctx context.Context) error {
		return q.client.LRem(ctx, q.procKey, 1, payload).Err()
	}
	return msg, ack, nil
}

// Requeue re-publishes msg to the pending list; it is the same operation as
// Publish. The downloader's transient-failure path and the requeuer go
// through the Queue interface and call Publish directly.
func (q *RedisQueue) Requeue(ctx context.Context, msg Message) error {
	return q.Publish(ctx, msg)
}
