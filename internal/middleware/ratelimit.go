package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mindcare-backend/pkg/clientip"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for request counters
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// DefaultBlockDuration is how long an IP stays blocked after exceeding the limit
	DefaultBlockDuration = 15 * time.Minute
)

// RateLimiter counts requests per IP in Redis so the limit holds across instances.
// An IP that exceeds the limit is blocked for BlockDuration. Redis failures let the
// request through.
type RateLimiter struct {
	client        redis.Cmdable
	ips           clientip.Resolver
	log           *logger.Logger
	Window        time.Duration
	MaxRequests   int
	BlockDuration time.Duration
}

func NewRateLimiter(client redis.Cmdable, ips clientip.Resolver, window time.Duration, maxRequests int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		client:        client,
		ips:           ips,
		log:           log,
		Window:        window,
		MaxRequests:   maxRequests,
		BlockDuration: DefaultBlockDuration,
	}
}

// Middleware enforces the limit and sets the X-RateLimit-* headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := rl.ips.ClientIP(r)

		blocked, err := rl.IsBlocked(ctx, ip)
		if err == nil && blocked {
			utils.RespondWithError(w, http.StatusTooManyRequests,
				"Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		count, err := rl.increment(ctx, ip)
		if err != nil {
			rl.log.Warn("Rate limiter unavailable, allowing request", "ip", ip, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.MaxRequests))
		if count > int64(rl.MaxRequests) {
			if err := rl.client.Set(ctx, BlockedIPKeyPrefix+ip, "1", rl.BlockDuration).Err(); err != nil {
				rl.log.Warn("Failed to block IP", "ip", ip, "error", err)
			}
			rl.log.Warn("Rate limit exceeded", "ip", ip, "count", count)

			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.BlockDuration.Seconds())))
			utils.RespondWithError(w, http.StatusTooManyRequests,
				"Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(rl.MaxRequests)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rl.Window).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}

// increment bumps the counter for ip and starts its window on the first hit.
func (rl *RateLimiter) increment(ctx context.Context, ip string) (int64, error) {
	key := RateLimitKeyPrefix + ip
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.Window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Unblock removes an IP from the blocked list and resets its counter.
func (rl *RateLimiter) Unblock(ctx context.Context, ip string) error {
	return rl.client.Del(ctx, BlockedIPKeyPrefix+ip, RateLimitKeyPrefix+ip).Err()
}

// IsBlocked checks if an IP is currently blocked.
func (rl *RateLimiter) IsBlocked(ctx context.Context, ip string) (bool, error) {
	count, err := rl.client.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
	return count > 0, err
}
