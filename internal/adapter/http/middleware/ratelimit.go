package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/storage/redis"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the default per-group limits. Redemption
// writes arrive from relayers in bursts after each block, so their budget
// is higher than interactive profile traffic.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"redemptions": {Limit: 300, Window: time.Minute},
		"students":    {Limit: 120, Window: time.Minute},
		"stats":       {Limit: 240, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier determines the rate limit key source: the wallet
// address when the route carries one, the client IP otherwise.
func extractIdentifier(c *gin.Context) string {
	if wallet := c.Param("walletAddress"); wallet != "" {
		return wallet
	}
	if wallet := c.Query("walletAddress"); wallet != "" {
		return wallet
	}
	return c.ClientIP()
}
