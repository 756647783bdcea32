package session

import (
	"context"
	"errors"
	"time"

	"railbook/internal/shared/constants"
	"railbook/pkg/cache"
)

// RedisStore keeps each session key as its own Redis string. Every write
// resets the TTL of all keys of the session, so a session expires as a whole.
type RedisStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewRedisStore(c cache.Service, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dest interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	err := s.cache.Get(ctx, constants.BuildSessionKey(sessionID, key), dest)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrNotFound
	}
	return err
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, constants.BuildSessionKey(sessionID, key), value, s.ttl); err != nil {
		return err
	}
	if s.ttl <= 0 {
		return nil
	}
	return s.cache.ExpirePattern(ctx, constants.BuildSessionPattern(sessionID), s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	return s.cache.Delete(ctx, constants.BuildSessionKey(sessionID, key))
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	return s.cache.DeletePattern(ctx, constants.BuildSessionPattern(sessionID))
}
