package middleware

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-client quota tracker. State is
// process-local; a multi-instance deployment would need a shared
// counter store behind the same Check contract.
type RateLimiter struct {
	entries map[string]*rateLimitEntry
	mu      sync.Mutex
	limit   int
	window  time.Duration

	// now is swappable for tests.
	now func() time.Time
}

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// CheckResult is the outcome of one quota check.
type CheckResult struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// NewRateLimiter creates a limiter admitting limit requests per window
// per client identifier.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateLimitEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Check consumes one unit of the client's quota if available. The
// first request from a client, or the first after its window elapses,
// opens a fresh window with a count of 1.
func (rl *RateLimiter) Check(clientID string) CheckResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// Sweep expired entries on a small fraction of calls to bound
	// memory growth.
	if rand.Float64() < 0.1 {
		for id, entry := range rl.entries {
			if now.After(entry.resetTime) {
				delete(rl.entries, id)
			}
		}
	}

	entry, exists := rl.entries[clientID]
	if !exists || now.After(entry.resetTime) {
		entry = &rateLimitEntry{count: 1, resetTime: now.Add(rl.window)}
		rl.entries[clientID] = entry
		return CheckResult{Allowed: true, Remaining: rl.limit - 1, ResetTime: entry.resetTime}
	}

	if entry.count >= rl.limit {
		return CheckResult{Allowed: false, Remaining: 0, ResetTime: entry.resetTime}
	}

	entry.count++
	return CheckResult{Allowed: true, Remaining: rl.limit - entry.count, ResetTime: entry.resetTime}
}

// Limit returns the per-window request limit.
func (rl *RateLimiter) Limit() int { return rl.limit }

// RateLimit gates a route on the client's quota and attaches the
// X-RateLimit-* headers to every response, admitted or rejected.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := rl.Check(c.ClientIP())
		setRateLimitHeaders(c, rl.limit, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, limit int, result CheckResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
}
