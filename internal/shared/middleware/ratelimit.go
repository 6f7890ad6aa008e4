package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

// RateLimit allows perMinute requests per client IP with a burst of burst.
// Limiters idle for ten minutes are dropped on the next request.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	type visitor struct {
		limiter *rate.Limiter
		seen    time.Time
	}
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		every    = rate.Every(time.Minute / time.Duration(max(perMinute, 1)))
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		for k, v := range visitors {
			if now.Sub(v.seen) > 10*time.Minute {
				delete(visitors, k)
			}
		}
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(every, max(burst, 1))}
			visitors[ip] = v
		}
		v.seen = now
		allowed := v.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
