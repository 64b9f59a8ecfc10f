package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a simple in-memory per-client limiter. The public signing
// routes are the main consumer: short URLs are guessable enough that the
// lookup endpoint needs a brake.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*rateLimitClient
	limit       int
	window      time.Duration
	cleanupTick time.Duration
}

type rateLimitClient struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*rateLimitClient),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.Sub(c.lastReset) > rl.window*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow checks if a request from the given key should be allowed and
// returns the remaining tokens
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &rateLimitClient{tokens: rl.limit - 1, lastReset: now}
		return true, rl.limit - 1
	}

	if c.tokens <= 0 {
		return false, 0
	}
	c.tokens--
	return true, c.tokens
}

// Middleware returns a gin middleware keyed by client IP
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.Allow(c.ClientIP())

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_RATE_LIMITED",
					"message": "Too many requests, slow down",
				},
			})
			return
		}
		c.Next()
	}
}
