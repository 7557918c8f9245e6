package repository

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "login_attempts:"

// LoginAttemptStore counts failed logins per account within a sliding window.
type LoginAttemptStore interface {
	Count(ctx context.Context, email string) (int64, time.Duration, error)
	Increment(ctx context.Context, email string, window time.Duration) (int64, error)
	Reset(ctx context.Context, email string) error
}

type redisLoginAttemptStore struct {
	client *redis.Client
}

// NewLoginAttemptStore returns a Redis-backed store.
func NewLoginAttemptStore(client *redis.Client) LoginAttemptStore {
	return &redisLoginAttemptStore{client: client}
}

func loginAttemptKey(email string) string {
	return loginAttemptPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Count returns the current failure count and the time until the window resets.
func (s *redisLoginAttemptStore) Count(ctx context.Context, email string) (int64, time.Duration, error) {
	key := loginAttemptKey(email)
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, err
	}

	count, err := getCmd.Int64()
	if err == redis.Nil {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return count, ttlCmd.Val(), nil
}

// Increment records one failure. The window starts at the first failure.
func (s *redisLoginAttemptStore) Increment(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := loginAttemptKey(email)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *redisLoginAttemptStore) Reset(ctx context.Context, email string) error {
	return s.client.Del(ctx, loginAttemptKey(email)).Err()
}
