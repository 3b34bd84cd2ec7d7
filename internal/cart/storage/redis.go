package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fekuna/trimstore-service/pkg/cache"
)

// RedisStore keeps one key per cart and refreshes its TTL on every save, so
// an abandoned cart expires after ttl of inactivity.
type RedisStore struct {
	client *cache.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, cartID, key string) ([]byte, error) {
	v, err := s.client.Client.Get(ctx, scopedKey(cartID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, cartID, key string, value []byte) error {
	return s.client.Client.Set(ctx, scopedKey(cartID, key), value, s.ttl).Err()
}

func scopedKey(cartID, key string) string {
	return "carts:" + cartID + ":" + key
}
