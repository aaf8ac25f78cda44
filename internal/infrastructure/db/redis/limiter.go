package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "login_attempts:"

// AttemptLimiter counts failed logins per account in a rolling window.
// Key format: login_attempts:<account>, INCR on failure, EXPIRE on first
// failure, DEL on success.
type AttemptLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &AttemptLimiter{client: client, max: max, window: window}
}

func (l *AttemptLimiter) TooMany(ctx context.Context, account string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(account)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("attempt count: %w", err)
	}
	return n >= l.max, nil
}

func (l *AttemptLimiter) NoteFailure(ctx context.Context, account string) error {
	key := l.key(account)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("note failure: %w", err)
	}
	if n == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}

	// A crash between INCR and EXPIRE leaves a counter with no TTL,
	// which would lock the account out for good. Re-arm the window
	// whenever the key reports none.
	ttl, err := l.client.TTL(ctx, key).Result()
	if err == nil && ttl < 0 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, account string) error {
	return l.client.Del(ctx, l.key(account)).Err()
}

func (l *AttemptLimiter) key(account string) string {
	return attemptKeyPrefix + account
}
