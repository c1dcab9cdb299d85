package middlewares

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limiters = make(map[string]*clientLimiter)
	mu       sync.Mutex
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	// Evict limiters idle for over an hour so the map doesn't grow forever.
	if len(limiters) > 1000 {
		cutoff := time.Now().Add(-time.Hour)
		for k, cl := range limiters {
			if cl.lastSeen.Before(cutoff) {
				delete(limiters, k)
			}
		}
	}

	cl, exists := limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(r, b)}
		limiters[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func RateLimitMiddleware(r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		limiter := getLimiter(key, r, b)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(429, gin.H{"error": "Too many requests. Please slow down."})
			return
		}

		c.Next()
	}
}
