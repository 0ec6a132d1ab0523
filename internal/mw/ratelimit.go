package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor tracks the limiter for one client IP and when it last sent a
// request, so idle entries can be pruned.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter stores a rate limiter for each IP address.
type IPRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the rate limiter for an IP address, creating one if
// needed.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// prune drops limiters for IPs that have been silent longer than maxIdle.
func (i *IPRateLimiter) prune(maxIdle time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, v := range i.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(i.visitors, ip)
		}
	}
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b)
	go func() {
		for range time.Tick(10 * time.Minute) {
			limiter.prune(10 * time.Minute)
		}
	}()
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
