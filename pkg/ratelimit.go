package pkg

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DistributedLimiter combines local rate.Limiter with an optional Redis counter so that
// several replicas of the web service share one submission budget.
type DistributedLimiter struct {
	localLimiter *rate.Limiter
	redisClient  *redis.Client // nil: local limiting only
	key          string        // e.g: "credit_approval:submissions"
	ttl          time.Duration // counter window
	logger       *zap.Logger
}

// NewDistributedLimiter creates a limiter; if globalRate=0, it's unlimited.
func NewDistributedLimiter(redisClient *redis.Client, key string, globalRate, burst int, ttl time.Duration, logger *zap.Logger) *DistributedLimiter {
	var local *rate.Limiter
	if globalRate > 0 {
		if burst <= 0 {
			burst = 1
		}
		local = rate.NewLimiter(rate.Limit(globalRate), burst)
	}
	return &DistributedLimiter{
		localLimiter: local,
		redisClient:  redisClient,
		key:          key,
		ttl:          ttl,
		logger:       logger,
	}
}

// Allow checks if a token is available; uses Redis for distributed increment when configured.
func (d *DistributedLimiter) Allow(ctx context.Context) bool {
	if d == nil || d.localLimiter == nil {
		return true // Unlimited
	}

	if !d.localLimiter.Allow() {
		return false
	}
	if d.redisClient == nil {
		return true
	}

	pipe := d.redisClient.Pipeline()
	incr := pipe.Incr(ctx, d.key)
	pipe.Expire(ctx, d.key, d.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		d.logger.Error("redis rate limit error; falling back to local", zap.Error(err))
		return true
	}

	// budget for one ttl window across all replicas
	budget := int64(float64(d.localLimiter.Limit())*d.ttl.Seconds()) + int64(d.localLimiter.Burst())
	count := incr.Val()
	if count > budget {
		d.logger.Warn("global rate limit exceeded", zap.Int64("count", count))
		return false
	}
	return true
}
