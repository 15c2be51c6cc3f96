package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher appends JSON events to a Redis list.
// Consumers read oldest first with RPOP/BRPOP.
type RedisPublisher struct {
	client *redis.Client
	key    string
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(url, key string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{
		client: client,
		key:    key,
	}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Left push, consumers right pop for FIFO
	return p.client.LPush(ctx, p.key, data).Err()
}

// Depth returns the number of events waiting in the list
func (p *RedisPublisher) Depth(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.key).Result()
}

// Next pops the oldest event, blocking up to timeout (0 waits indefinitely).
func (p *RedisPublisher) Next(ctx context.Context, timeout time.Duration) (*Event, error) {
	result, err := p.client.BRPop(ctx, timeout, p.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	// BRPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPop result format. Should have %d elements but got %d", 2, len(result))
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
