package pressfront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eringen/pressfront/source"
)

const redisKeyPrefix = "pressfront:resp:"

// RedisCache is a response cache shared by several front-end processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisCache, error) {
	if addr == "" {
		return nil, errors.New("pressfront: redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pressfront: redis ping: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached response for key.
func (r *RedisCache) Get(ctx context.Context, key string) (source.Response, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return source.Response{}, false, nil
	}
	if err != nil {
		return source.Response{}, false, fmt.Errorf("pressfront: redis get: %w", err)
	}
	var resp source.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return source.Response{}, false, fmt.Errorf("pressfront: redis decode %s: %w", key, err)
	}
	return resp, true, nil
}

// Set stores resp under key with the cache TTL.
func (r *RedisCache) Set(ctx context.Context, key string, resp source.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("pressfront: redis set: %w", err)
	}
	return nil
}

// Purge deletes every key this cache wrote.
func (r *RedisCache) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("pressfront: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("pressfront: redis purge: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
