package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/strayline/casevault/internal/handler"
	"github.com/strayline/casevault/internal/logger"
)

// windowCounter counts requests inside one fixed window.
type windowCounter struct {
	start time.Time
	count int
}

// RateLimiter enforces a fixed-window request quota per client identifier.
// State lives in a TTL-bounded LRU so abandoned identifiers age out on their
// own; an explicit sweep runs at most once per sweepEvery to keep the cache
// from carrying a full window of stale entries under churn.
type RateLimiter struct {
	mu         sync.Mutex
	window     time.Duration
	max        int
	sweepEvery time.Duration
	lastSweep  time.Time
	cache      *expirable.LRU[string, *windowCounter]
}

func NewRateLimiter(window time.Duration, max int, sweepEvery time.Duration) *RateLimiter {
	return &RateLimiter{
		window:     window,
		max:        max,
		sweepEvery: sweepEvery,
		lastSweep:  time.Now(),
		cache:      expirable.NewLRU[string, *windowCounter](rateLimiterCacheSize, nil, window),
	}
}

// Allow reports whether the identifier still has quota in the current
// window. The first call of a new window resets the count.
func (rl *RateLimiter) Allow(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.maybeSweep()

	now := time.Now()
	counter, ok := rl.cache.Get(identifier)
	if !ok || now.Sub(counter.start) >= rl.window {
		rl.cache.Add(identifier, &windowCounter{start: now, count: 1})
		return true
	}

	counter.count++
	return counter.count <= rl.max
}

// maybeSweep drops expired counters, at most once per sweepEvery.
// Caller must hold the mutex.
func (rl *RateLimiter) maybeSweep() {
	now := time.Now()
	if now.Sub(rl.lastSweep) < rl.sweepEvery {
		return
	}
	rl.lastSweep = now

	for _, key := range rl.cache.Keys() {
		if counter, ok := rl.cache.Peek(key); ok && now.Sub(counter.start) >= rl.window {
			rl.cache.Remove(key)
		}
	}
}

// RateLimitMiddleware rejects over-quota clients with 429 and a stable code
func RateLimitMiddleware(limiter *RateLimiter, trustedProxies []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := extractIP(r, trustedProxies)
			if !limiter.Allow(ip) {
				logger.FromContext(r.Context()).Warn(LogMsgRateLimited, "ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(handler.ErrorResponse{Error: handler.CodeRateLimited})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
