// Package ratelimit provides fixed-window request throttling keyed by client.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter reports whether a client has exhausted its request allowance. A call
// to IsLimited counts as an attempt.
type Limiter interface {
	IsLimited(clientID string) bool
}

// LimiterFunc adapts ordinary functions to Limiter.
type LimiterFunc func(clientID string) bool

// IsLimited invokes the wrapped function.
func (f LimiterFunc) IsLimited(clientID string) bool { return f(clientID) }

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is an in-process fixed-window Limiter. Expired windows are
// swept periodically by a background goroutine.
type MemoryLimiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]window

	stopOnce sync.Once
	stop     chan struct{}
}

// MemoryOption customises MemoryLimiter construction.
type MemoryOption func(*MemoryLimiter)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSweepPeriod sets how often expired windows are evicted. A non-positive
// period disables the sweeper.
func WithSweepPeriod(period time.Duration) MemoryOption {
	return func(l *MemoryLimiter) {
		if period > 0 {
			go l.sweepLoop(period)
		}
	}
}

// NewMemoryLimiter allows max attempts per client within each period.
func NewMemoryLimiter(max int, period time.Duration, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		max:     max,
		period:  period,
		now:     time.Now,
		windows: make(map[string]window),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsLimited records an attempt for clientID and reports whether the client has
// exceeded its allowance for the current window.
func (l *MemoryLimiter) IsLimited(clientID string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientID]
	if !ok || now.After(w.resetAt) {
		l.windows[clientID] = window{count: 1, resetAt: now.Add(l.period)}
		return l.max < 1
	}

	w.count++
	l.windows[clientID] = w
	return w.count > l.max
}

// Close stops the background sweeper.
func (l *MemoryLimiter) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *MemoryLimiter) sweepLoop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for clientID, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, clientID)
		}
	}
}
