package middleware

import (
	"net/http"
	"sync"
	"time"

	"bookpos/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a sliding-window limiter keyed by client IP. Good enough for
// a handful of station terminals; Redis would be overkill here.
type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.purge()
	return rl
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)
	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= rl.limit {
		rl.requests[key] = kept
		return false
	}
	rl.requests[key] = append(kept, now)
	return true
}

func (rl *rateLimiter) purge() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key, times := range rl.requests {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(rl.requests, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.Response{
				Error: "rate_limited", Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}

// RateLimiter covers general API traffic.
func RateLimiter() gin.HandlerFunc {
	return newRateLimiter(300, time.Minute).middleware()
}

// LoginRateLimiter is much tighter: the login endpoint takes a shared
// password, so brute forcing is the thing to slow down.
func LoginRateLimiter() gin.HandlerFunc {
	return newRateLimiter(10, time.Minute).middleware()
}
