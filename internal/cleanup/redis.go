package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding queued jobs.
const DefaultRedisKey = "sgas:cleanup"

// RedisQueue stores jobs as JSON in a Redis list. Push prepends, Pop takes
// from the tail, so the list behaves as a FIFO shared by every replica.
type RedisQueue struct {
	client redis.Cmdable
	key    string
}

// NewRedisQueue wraps client. An empty key selects DefaultRedisKey.
func NewRedisQueue(client redis.Cmdable, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key}
}

// OpenRedis parses url, pings the server and returns a queue on it.
func OpenRedis(ctx context.Context, url, key string) (*RedisQueue, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisQueue(client, key), client, nil
}

// Push prepends job to the list.
func (q *RedisQueue) Push(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode cleanup job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push cleanup job: %w", err)
	}
	return nil
}

// Pop takes the oldest job from the tail of the list.
func (q *RedisQueue) Pop(ctx context.Context) (Job, bool, error) {
	payload, err := q.client.RPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, fmt.Errorf("pop cleanup job: %w", err)
	}
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return Job{}, false, fmt.Errorf("decode cleanup job: %w", err)
	}
	return job, true, nil
}

// Len reports the list length.
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("cleanup queue length: %w", err)
	}
	return int(n), nil
}
