package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "portal:session:"

// RedisBackend stores session values as Redis strings that expire with the session.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend wraps client. Every write refreshes the ttl of the written keys.
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// Session returns the store of session id.
func (b *RedisBackend) Session(id string) Store {
	if id == "" || b == nil || b.client == nil {
		return NoSession()
	}
	return &redisStore{backend: b, id: id}
}

// Ping verifies Redis connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	if b == nil || b.client == nil {
		return errors.New("redis client not configured")
	}
	return b.client.Ping(ctx).Err()
}

type redisStore struct {
	backend *RedisBackend
	id      string
}

func (s *redisStore) key(k Key) string {
	return redisKeyPrefix + s.id + ":" + string(k)
}

func (s *redisStore) Get(ctx context.Context, key Key) Lookup {
	v, err := s.backend.client.Get(ctx, s.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return missing()
	case err != nil:
		return unavailable(fmt.Errorf("redis get %s: %w", key, err))
	}
	return found(v)
}

func (s *redisStore) Set(ctx context.Context, entries ...Entry) error {
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, s.key(e.Key), e.Value, s.backend.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, s.key(k))
	}
	if err := s.backend.client.Del(ctx, names...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
