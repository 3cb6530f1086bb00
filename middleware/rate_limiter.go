package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	refill  rate.Limit
	burst   int
}

func newIPLimiters(interval time.Duration, burst int) *ipLimiters {
	return &ipLimiters{
		buckets: make(map[string]*rate.Limiter),
		refill:  rate.Every(interval),
		burst:   burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok := l.buckets[ip]; ok {
		return bucket
	}
	bucket := rate.NewLimiter(l.refill, l.burst)
	l.buckets[ip] = bucket
	return bucket
}

// RateLimit throttles requests per client IP. interval is the refill period
// of a single token and burst is the bucket size. Applied to the auth routes
// to slow down credential stuffing.
func RateLimit(interval time.Duration, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(interval, burst)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
