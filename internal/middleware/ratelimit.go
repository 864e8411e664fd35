package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/peopleflow-backend-go/pkg/response"
)

// RateLimiter implements a fixed-window per-client rate limiter.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	size    time.Duration
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter creates a limiter allowing limit requests per client
// per window.
func NewRateLimiter(limit int, size time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		size:    size,
	}
	go rl.cleanup()
	return rl
}

// cleanup drops expired windows so idle clients do not accumulate.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.size)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, w := range rl.windows {
			if now.Sub(w.start) >= rl.size {
				delete(rl.windows, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow checks whether a request from the given client fits its window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.start) >= rl.size {
		rl.windows[ip] = &window{start: now, count: 1}
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// RateLimit middleware limits requests per client IP.
func RateLimit(limit int, size time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, size)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
