package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. Keys are namespaced by session ID
// so one client serves many sessions. An optional TTL is refreshed on every
// write, tying value lifetime to session activity.
type RedisStore struct {
	client    redis.UniversalClient
	sessionID string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed store for one session.
// A zero ttl stores values without expiration.
func NewRedisStore(client redis.UniversalClient, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (s *RedisStore) redisKey(key string) string {
	return "session:" + s.sessionID + ":" + key
}

// Has reports whether a value exists for the key.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	n, err := s.client.Exists(ctx, s.redisKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get retrieves the value for the key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

// Put stores the value under the key, refreshing the TTL.
func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	return s.client.Set(ctx, s.redisKey(key), value, s.ttl).Err()
}

// Remove deletes the key. Absent keys are ignored.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	return s.client.Del(ctx, s.redisKey(key)).Err()
}
