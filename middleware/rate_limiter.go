package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterStore tracks one limiter per client IP. Constructed explicitly
// and injected into the middleware, so tests and multiple routers can each
// carry their own store. Idle entries are swept out to bound the map.
type RateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	perMin   int
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiterStore builds a store allowing perMin requests per minute with
// the given burst, and starts the idle-entry sweeper.
func NewRateLimiterStore(perMin, burst int) *RateLimiterStore {
	s := &RateLimiterStore{
		limiters: make(map[string]*clientLimiter),
		perMin:   perMin,
		burst:    burst,
	}
	go s.sweep()
	return s
}

func (s *RateLimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[ip]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.burst),
		}
		s.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// sweep drops limiters idle for over 10 minutes.
func (s *RateLimiterStore) sweep() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-10 * time.Minute)
		s.mu.Lock()
		for ip, entry := range s.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(s.limiters, ip)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimitMiddleware limits requests per client IP using the injected store.
func RateLimitMiddleware(store *RateLimiterStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.get(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
