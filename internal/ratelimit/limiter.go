package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxRequests = 10
	defaultWindow      = 15 * time.Minute
)

// Limiter implements fixed-window rate limiting backed by Redis. Window
// state expires on its own via key TTLs, so there is nothing to clean up.
type Limiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client:      client,
		maxRequests: defaultMaxRequests,
		window:      defaultWindow,
	}
}

// CheckIPRateLimit reports whether the IP has exhausted its window for the
// given purpose (e.g. "login", "register").
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	key := ipKey(ip, purpose)

	value, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse rate limit counter: %w", err)
	}

	return count >= l.maxRequests, nil
}

// RecordIPRequest counts one request from the IP against its window.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	// First hit in the window starts its TTL.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit TTL: %w", err)
		}
	}

	return nil
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}
