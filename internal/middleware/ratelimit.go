package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgaio/openbricks/internal/metrics"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one limiter scope. Scopes are independent: the
// auth endpoints get their own, stricter budget so credential-stuffing
// traffic cannot consume general API capacity.
type RateLimitConfig struct {
	// Layer names the enforcement point, e.g. "gateway" or "auth". Part of
	// the Redis key: a request crossing several layers consumes one unit
	// per layer instead of draining a shared counter twice.
	Layer string
	// Scope names the budget, e.g. "general" or "auth". Part of the Redis
	// key, so two scopes never share a counter.
	Scope string
	// Limit is the number of requests allowed per window per client IP.
	Limit int
	// Window is the fixed counting window.
	Window time.Duration
}

// RateLimit throttles requests per client IP using a fixed window counter
// in Redis (INCR + EXPIRE). Exceeding the budget yields 429 for the rest of
// the window; nothing is banned. If Redis is unreachable the limiter fails
// open: shaping traffic is not worth taking the whole service down.
func RateLimit(client *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s:%s", cfg.Layer, cfg.Scope, c.ClientIP())
		ctx := c.Request.Context()

		pipe := client.TxPipeline()
		count := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, cfg.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			slog.Warn("rate limiter unavailable, allowing request",
				"scope", cfg.Scope, "error", err)
			c.Next()
			return
		}

		if count.Val() > int64(cfg.Limit) {
			metrics.RateLimitRejections.WithLabelValues(cfg.Scope).Inc()
			respond.Error(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
