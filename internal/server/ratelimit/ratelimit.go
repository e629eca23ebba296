// Package ratelimit throttles API clients with token buckets grouped into
// cost tiers: endpoints that call the generation model are the most
// expensive, embedding-backed scoring endpoints next, feedback writes are
// cheap, and everything else falls under the read allowance.
package ratelimit

import (
	"sync"
	"time"
)

// Info reports the outcome of a rate limit check, for response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is one client's allowance for one tier. Tokens refill continuously
// at rate per second up to cap.
type bucket struct {
	tokens   float64
	cap      float64
	rate     float64
	touched  time.Time
	lastSeen time.Time
}

// take refills the bucket for elapsed time, then consumes one token when
// available. It reports whether the request may proceed, the whole tokens
// left, and when the bucket will be full again.
func (b *bucket) take(now time.Time) (bool, int, time.Time) {
	b.tokens += now.Sub(b.touched).Seconds() * b.rate
	if b.tokens > b.cap {
		b.tokens = b.cap
	}
	b.touched = now
	b.lastSeen = now

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}

	reset := now
	if b.tokens < b.cap {
		reset = now.Add(time.Duration((b.cap - b.tokens) / b.rate * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

// Limiter applies per-client, per-tier token buckets. Safe for concurrent
// use; idle buckets are dropped by a background sweep.
type Limiter struct {
	cfg      Config
	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a limiter from cfg, filling zero fields with defaults, and
// starts the idle-bucket sweep when limiting is enabled.
func New(cfg Config) *Limiter {
	if cfg.Routes == nil {
		cfg.Routes = DefaultRoutes()
	}
	if cfg.Default.Window <= 0 {
		cfg.Default = TierRead
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = time.Hour
	}

	l := &Limiter{cfg: cfg, buckets: make(map[string]*bucket)}
	if cfg.Enabled {
		l.stop = make(chan struct{})
		go l.sweep()
	}
	return l
}

// Allow checks whether a request from clientID to the given route may
// proceed. Unlimited tiers and disabled limiters always allow.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{Allowed: true}
	}

	tier := l.cfg.tierFor(method, path)
	if tier.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := time.Now()
	key := clientID + " " + tier.Name

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:  float64(tier.burst()),
			cap:     float64(tier.burst()),
			rate:    float64(tier.Limit) / tier.Window.Seconds(),
			touched: now,
		}
		l.buckets[key] = b
	}
	allowed, remaining, reset := b.take(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if wait := time.Until(reset); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return allowed, info
}

// Stop ends the idle-bucket sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	if l.stop != nil {
		l.stopOnce.Do(func() { close(l.stop) })
	}
}

// sweep drops buckets that have been idle longer than MaxIdle.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cfg.MaxIdle)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
