package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/entity"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	SkipPaths         []string // Paths to skip rate limiting
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 100,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/health"},
	}
}

func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// RateLimit creates rate limiting middleware with per-key counters in
// an in-process cache that expires each window after a minute.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	counters := gocache.New(time.Minute, 5*time.Minute)
	return func(c *gin.Context) {
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c) + ":" + c.Request.URL.Path
		count, err := counters.IncrementInt64(key, 1)
		if err != nil {
			counters.Set(key, int64(1), time.Minute)
			count = 1
		}

		if count > int64(config.RequestsPerMinute) {
			logger.Warningf("rate limit exceeded for %s (count: %d)", key, count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{
				Success: false,
				Msg:     "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
