package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry claims sessions with SET NX and lets key expiry do the sweeping.
type RedisRegistry struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisRegistry wraps an existing client.
func NewRedisRegistry(client *redis.Client, prefix string, retention time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: prefix, retention: retention}
}

// NewRedisRegistryFromURL parses a redis:// URL and verifies the connection.
func NewRedisRegistryFromURL(ctx context.Context, rawURL, prefix string, retention time.Duration) (*RedisRegistry, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisRegistry(client, prefix, retention), nil
}

func (r *RedisRegistry) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisRegistry) Claim(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	claimed, err := r.client.SetNX(ctx, r.key(sessionID), at.UTC().Format(time.RFC3339Nano), r.retention).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim session %s: %w", sessionID, err)
	}
	return claimed, nil
}

// Sweep is a no-op: entries carry the retention as their TTL.
func (r *RedisRegistry) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (r *RedisRegistry) Len(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// Close releases the underlying client.
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
