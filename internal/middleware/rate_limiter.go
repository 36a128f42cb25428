package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a simple in-memory request throttle, separate from the
// tier-based activity quotas (those live in the database and survive
// restarts; this one only protects the process from bursts).
type RateLimiter struct {
	userLimits map[uint]*bucket
	ipLimits   map[string]*bucket
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
}

type bucket struct {
	requests  int
	resetTime time.Time
}

func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[uint]*bucket),
		ipLimits:        make(map[string]*bucket),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
	}

	go rl.cleanup()

	return rl
}

// Middleware throttles by principal when authenticated, by client IP
// otherwise.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := Principal(c)

		allowed := true
		if userID != 0 {
			allowed = rl.allowUser(userID)
		} else {
			allowed = rl.allowIP(c.ClientIP())
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allowUser(userID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return allow(rl.userLimits, userID, rl.userMaxRequests, rl.window)
}

func (rl *RateLimiter) allowIP(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return allow(rl.ipLimits, ip, rl.ipMaxRequests, rl.window)
}

func allow[K comparable](limits map[K]*bucket, key K, max int, window time.Duration) bool {
	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &bucket{requests: 1, resetTime: now.Add(window)}
		return true
	}

	if limit.requests >= max {
		return false
	}

	limit.requests++
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for userID, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, userID)
			}
		}
		for ip, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[uint]*bucket)
	rl.ipLimits = make(map[string]*bucket)
}
