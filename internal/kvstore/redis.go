package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/marketplace-cart/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Ping(ctx context.Context) error
	StorageKey(name string) string
}

// Redis persists values as plain strings under namespaced keys without expiry.
type Redis struct {
	client redisClient
}

func NewRedis(client redisClient) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Read(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.client.StorageKey(key))
	if errors.Is(err, pkgredis.ErrNil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Write(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.client.StorageKey(key), value, 0); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
