package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-key token bucket allowing limit events per window.
// Keys are user ids so clients cannot bypass throttling by opening new connections.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyLimiter
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter and starts the background eviction goroutine.
// Call Stop to release it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*keyLimiter),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

// Allow reports whether an event for key may happen now and consumes a token if so.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	kl, ok := r.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(rate.Every(r.window/time.Duration(r.limit)), r.limit)}
		r.limiters[key] = kl
	}
	kl.lastSeen = now
	return kl.limiter.AllowN(now, 1)
}

// Stop ends the eviction goroutine.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// evictLoop periodically removes idle keys, preventing unbounded memory growth.
func (r *RateLimiter) evictLoop() {
	ticker := time.NewTicker(r.window)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evict()
		}
	}
}

// evict drops keys unused for a full window. Their buckets have refilled,
// so a fresh limiter is equivalent.
func (r *RateLimiter) evict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.window)
	for key, kl := range r.limiters {
		if !kl.lastSeen.After(cutoff) {
			delete(r.limiters, key)
		}
	}
}
