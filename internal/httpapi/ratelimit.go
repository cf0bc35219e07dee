package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"receptionist-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a per-client-IP fixed-window limit to the portal API.
//
// Redis being down must not take the portal down with it: limiter errors
// fail open and are logged, not returned.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		key := "ratelimit:api:" + c.ClientIP()
		ok, err := utils.AllowFixedWindow(c.Request.Context(), rdb, key, limit, window)
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable", "error", err)
			}
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
