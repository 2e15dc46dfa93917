package embed

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

// RedisCache shares the embedding cache across pipeline instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg config.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.ConfigurationError("invalid redis URL", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "failed to connect to redis", err)
	}

	return &RedisCache{client: client, ttl: time.Duration(cfg.TTL) * time.Second}, nil
}

// Get retrieves a cached embedding.
func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.CacheError("redis get failed", err)
	}

	return bytesToVector(data), true, nil
}

// Put stores an embedding.
func (c *RedisCache) Put(ctx context.Context, key string, vector []float32) error {
	if err := c.client.Set(ctx, key, vectorToBytes(vector), c.ttl).Err(); err != nil {
		return errors.CacheError("redis put failed", err)
	}
	return nil
}

// Close closes the connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
