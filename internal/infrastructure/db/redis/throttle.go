package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per key in Redis. The window starts with
// the first failure and is not extended by later ones.
//
// Key format: throttle:login:<sha256(key)>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow reports whether another attempt is permitted for key.
func (t *LoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(key)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// Fail records one failed attempt.
func (t *LoginThrottle) Fail(ctx context.Context, key string) error {
	k := t.key(key)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("throttle fail: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset forgets all failures for key, typically after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.key(key)).Err()
}

func (t *LoginThrottle) key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "throttle:login:" + hex.EncodeToString(sum[:])
}
