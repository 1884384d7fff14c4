package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the connection and key for a Redis-backed index.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisIndex stores seen fingerprints in a Redis set, shared across runs
// and across concurrent pipeline instances.
type RedisIndex struct {
	client *redis.Client
	key    string
}

// NewRedisIndex connects to Redis and verifies connectivity.
func NewRedisIndex(cfg RedisConfig) (*RedisIndex, error) {
	if cfg.Key == "" {
		cfg.Key = "briefwire:seen"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisIndex{client: client, key: cfg.Key}, nil
}

// IsNew reports whether the fingerprint is absent from the set.
func (i *RedisIndex) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	member, err := i.client.SIsMember(ctx, i.key, fingerprint).Result()
	if err != nil {
		return false, fmt.Errorf("check fingerprint: %w", err)
	}
	return !member, nil
}

// MarkSeen adds the fingerprint to the set.
func (i *RedisIndex) MarkSeen(ctx context.Context, fingerprint string) error {
	if err := i.client.SAdd(ctx, i.key, fingerprint).Err(); err != nil {
		return fmt.Errorf("mark fingerprint seen: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (i *RedisIndex) Close() error {
	return i.client.Close()
}
