// Package ratelimit limits API requests per client and endpoint with token
// buckets from golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of one Allow call. Limit is zero when the request
// was not subject to limiting at all.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

var pass = Decision{Allowed: true}

type entry struct {
	bucket   *rate.Limiter
	lastUsed time.Time
}

// Limiter keeps one token bucket per client, endpoint and method. Buckets
// idle for longer than IdleTTL are evicted in the background.
type Limiter struct {
	cfg *Config

	mu      sync.Mutex
	entries map[string]*entry

	done     chan struct{}
	stopOnce sync.Once

	now func() time.Time
}

// NewLimiter starts a limiter. A nil config limits to 10 req/s with a burst of 20.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = NewConfig(10, 20)
	}
	l := &Limiter{
		cfg:     cfg,
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.sweep(cfg.CleanupInterval)
	}
	return l
}

// Allow decides whether a request may proceed. A denied request consumes no
// token, so hammering a full bucket does not delay its refill.
func (l *Limiter) Allow(clientID, path, method string) (bool, Decision) {
	if !l.cfg.Enabled || l.cfg.Exempt[clientID] {
		return true, pass
	}

	rule := l.cfg.ruleFor(path, method)
	if rule == nil {
		rule = &Rule{RequestsPerSec: l.cfg.RequestsPerSec, Burst: l.cfg.Burst}
	}
	if rule.RequestsPerSec <= 0 {
		return true, pass
	}

	now := l.now()
	b := l.get(clientID+":"+path+":"+method, rule, now)
	if !b.AllowN(now, 1) {
		return false, Decision{Limit: b.Burst(), RetryAfter: untilNextToken(b, now)}
	}
	return true, Decision{Allowed: true, Limit: b.Burst(), Remaining: max(0, int(b.TokensAt(now)))}
}

func untilNextToken(b *rate.Limiter, now time.Time) time.Duration {
	deficit := 1 - b.TokensAt(now)
	if deficit <= 0 || b.Limit() <= 0 {
		return 0
	}
	return time.Duration(deficit / float64(b.Limit()) * float64(time.Second))
}

func (l *Limiter) get(key string, rule *Rule, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if e == nil {
		e = &entry{bucket: rate.NewLimiter(rate.Limit(rule.RequestsPerSec), max(1, rule.Burst))}
		l.entries[key] = e
	}
	e.lastUsed = now
	return e.bucket
}

func (l *Limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.evictIdle()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) evictIdle() {
	ttl := l.cfg.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastUsed.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
