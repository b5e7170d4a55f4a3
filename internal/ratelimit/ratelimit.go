// Package ratelimit implements a fixed-window request counter keyed by
// caller+action. State is process-local: it resets on restart and is
// not shared between processes, which is acceptable at this system's
// scale. A distributed deployment needs an implementation backed by a
// shared counter store behind the same Allow signature.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter tracks per-key counters over a fixed time window.
type Limiter struct {
	windowSize time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*window
}

// New creates a limiter using the wall clock.
func New(windowSize time.Duration) *Limiter {
	return NewWithClock(windowSize, time.Now)
}

// NewWithClock creates a limiter with an injected clock for tests.
func NewWithClock(windowSize time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		windowSize: windowSize,
		now:        now,
		entries:    make(map[string]*window),
	}
}

// Allow records one hit for key and reports whether the hit stays
// within limit for the current window.
func (l *Limiter) Allow(key string, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Expired windows are dropped wholesale so the map stays bounded
	// by the number of active keys.
	for k, w := range l.entries {
		if w.resetAt.Before(now) {
			delete(l.entries, k)
		}
	}

	w := l.entries[key]
	if w == nil {
		w = &window{resetAt: now.Add(l.windowSize)}
		l.entries[key] = w
	}

	w.count++
	return w.count <= limit
}

// Remaining reports how many hits key has left in the current window.
func (l *Limiter) Remaining(key string, limit int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.entries[key]
	if w == nil || w.resetAt.Before(l.now()) {
		return limit
	}
	if rem := limit - w.count; rem > 0 {
		return rem
	}
	return 0
}
