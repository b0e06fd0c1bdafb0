package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter decides whether a caller may issue another request.
type Limiter interface {
	Allow(identifier string) bool
}

// NewInMemoryRateLimiter keeps one token bucket per identifier. Buckets
// idle for longer than idleTTL are evicted.
func NewInMemoryRateLimiter(r rate.Limit, b int, idleTTL time.Duration) Limiter {
	return &inMemoryRateLimiter{
		rate:    r,
		burst:   b,
		ttl:     idleTTL,
		clients: cache.New(idleTTL, 2*idleTTL),
	}
}

type inMemoryRateLimiter struct {
	rate    rate.Limit
	burst   int
	ttl     time.Duration
	clients *cache.Cache
	mu      sync.Mutex
}

func (l *inMemoryRateLimiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := l.clients.Get(identifier); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.rate, l.burst)
	}
	l.clients.Set(identifier, limiter, l.ttl)

	return limiter.Allow()
}

// Unlimited admits every request.
type Unlimited struct{}

func (Unlimited) Allow(string) bool { return true }
