// Package ratelimit implements per-key token buckets.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter holds one bucket per key. Every bucket starts full with Burst
// tokens and refills at PerSec tokens per second. Buckets idle for longer
// than MaxIdle are dropped by Sweep.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*bucket
	burst   float64
	perSec  float64
	maxIdle time.Duration
	now     func() time.Time
}

func New(burst, perSec float64, maxIdle time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		m:       make(map[string]*bucket),
		burst:   burst,
		perSec:  perSec,
		maxIdle: maxIdle,
		now:     time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.perSec
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Sweep drops idle buckets and returns how many were removed. A dropped
// bucket would have refilled completely anyway once idle for burst/perSec.
func (l *Limiter) Sweep() int {
	if l.maxIdle <= 0 {
		return 0
	}
	cutoff := l.now().Add(-l.maxIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, b := range l.m {
		if b.last.Before(cutoff) {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until stop is closed. A non-positive interval
// disables sweeping.
func (l *Limiter) Run(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		<-stop
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
