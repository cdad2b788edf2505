package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AttemptLimiter caps how often a single user may trigger award processing.
// It is a fixed-window counter in Redis, shared across instances. The
// limiter fails open: when Redis is unreachable, award attempts go through
// rather than blocking visits, since the award path itself is idempotent.
type AttemptLimiter struct {
	client *redis.Client
	logger *zap.Logger
	limit  int
	window time.Duration
}

// NewAttemptLimiter creates a limiter allowing limit attempts per user per
// window.
func NewAttemptLimiter(client *redis.Client, logger *zap.Logger, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client: client,
		logger: logger,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the user has attempts left in the current window.
func (l *AttemptLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := l.windowKey(userID, time.Now())

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("award attempt limiter unavailable, failing open",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return true, nil
	}

	count := incr.Val()
	if count > int64(l.limit) {
		l.logger.Warn("award attempt limit exceeded",
			zap.String("user_id", userID),
			zap.Int64("count", count),
			zap.Int("limit", l.limit),
		)
		return false, nil
	}
	return true, nil
}

// Reset clears the user's counter in the current window.
func (l *AttemptLimiter) Reset(ctx context.Context, userID string) error {
	key := l.windowKey(userID, time.Now())
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset award attempts for user %s: %w", userID, err)
	}
	return nil
}

// windowKey buckets time into fixed windows so every instance agrees on the
// counter key without coordination.
func (l *AttemptLimiter) windowKey(userID string, now time.Time) string {
	bucket := now.UnixNano() / int64(l.window)
	return fmt.Sprintf("award:attempts:%s:%d", userID, bucket)
}
