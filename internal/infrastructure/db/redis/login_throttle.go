package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const failuresPrefix = "login_failures:"

// LoginThrottle counts failed logins per username in fixed windows.
// Key format: login_failures:<username>
type LoginThrottle struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginThrottle blocks a username after max failures until its window expires.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, max: int64(max), window: window}
}

// Blocked reports whether username has reached the failure threshold.
func (t *LoginThrottle) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.max, nil
}

// RecordFailure increments the counter; the first failure starts the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	key := t.key(username)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(username string) string {
	return failuresPrefix + username
}
