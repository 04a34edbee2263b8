package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(5, 15*time.Minute, WithClock(clock.Now))
	defer l.Close()

	for i := 0; i < 5; i++ {
		if l.IsLimited("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if !l.IsLimited("1.2.3.4") {
		t.Fatal("sixth attempt should be limited")
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(2, time.Minute, WithClock(clock.Now))
	defer l.Close()

	l.IsLimited("client")
	l.IsLimited("client")
	if !l.IsLimited("client") {
		t.Fatal("third attempt should be limited")
	}

	clock.Advance(61 * time.Second)
	if l.IsLimited("client") {
		t.Fatal("first attempt after window expiry should be allowed")
	}
}

func TestMemoryLimiterIsolatesClients(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(1, time.Minute, WithClock(clock.Now))
	defer l.Close()

	if l.IsLimited("a") {
		t.Fatal("client a first attempt should be allowed")
	}
	if !l.IsLimited("a") {
		t.Fatal("client a second attempt should be limited")
	}
	if l.IsLimited("b") {
		t.Fatal("client b should not be affected by client a")
	}
}

func TestMemoryLimiterSweepEvictsExpiredWindows(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(1, time.Minute, WithClock(clock.Now))
	defer l.Close()

	l.IsLimited("stale")
	clock.Advance(2 * time.Minute)
	l.sweep()

	l.mu.Lock()
	_, ok := l.windows["stale"]
	l.mu.Unlock()
	if ok {
		t.Fatal("expected expired window to be evicted")
	}
}

func TestLimiterFunc(t *testing.T) {
	calls := 0
	var l Limiter = LimiterFunc(func(clientID string) bool {
		calls++
		return clientID == "blocked"
	})

	if l.IsLimited("ok") {
		t.Fatal("unexpected limit")
	}
	if !l.IsLimited("blocked") {
		t.Fatal("expected limit")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
