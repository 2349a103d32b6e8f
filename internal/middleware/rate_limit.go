package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Counter is the Redis-backed fixed window counter behind the limits.
type Counter interface {
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)
	RateLimitTTL(ctx context.Context, key string) time.Duration
}

const (
	APIMaxRequests      = 100
	CheckoutMaxRequests = 10
	SearchMaxRequests   = 30
	SignUpMaxRequests   = 3
	ForgotMaxRequests   = 3

	APIWindow    = time.Minute
	SignUpWindow = 30 * time.Minute
	ForgotWindow = 10 * time.Minute
)

// RateLimit allows max requests per client IP in each window. A Redis
// failure lets the request through.
func RateLimit(counter Counter, name string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()
		ctx := c.Request.Context()

		n, err := counter.IncrementRateLimit(ctx, key, window)
		if err != nil {
			log.Warn().Err(err).Str("limit", name).Msg("⚠️ Rate limit unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(max, 10))
		if n > max {
			ttl := counter.RateLimitTTL(ctx, key)
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("too many requests, retry in %d seconds", int(ttl.Seconds())),
				"retry_after": int(ttl.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max-n, 10))
		c.Next()
	}
}

func APIRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "api_requests", APIMaxRequests, APIWindow)
}

func CheckoutRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "checkout_requests", CheckoutMaxRequests, APIWindow)
}

func SearchRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "search_requests", SearchMaxRequests, APIWindow)
}

func SignUpRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "signup_attempts", SignUpMaxRequests, SignUpWindow)
}

func ForgotPasswordRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "forgot_password_attempts", ForgotMaxRequests, ForgotWindow)
}
