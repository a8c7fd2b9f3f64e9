package persist

import (
	"sync"
	"time"
)

// Clock abstracts time for deterministic throttle tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Throttle is a trailing-drop rate limiter keyed per logical entity: the
// first call for a key inside a window passes, later calls in that window
// are dropped outright, not queued and not flushed when the window ends.
type Throttle struct {
	clock  Clock
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewThrottle creates a Throttle with the given window. A nil clock uses
// the system clock.
func NewThrottle(window time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Throttle{
		clock:  clock,
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Allow reports whether a call for key may proceed, recording the call
// time when it does.
func (t *Throttle) Allow(key string) bool {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.last[key]; ok && now.Sub(last) < t.window {
		return false
	}
	t.last[key] = now
	return true
}

// Reset forgets the recorded call time for key.
func (t *Throttle) Reset(key string) {
	t.mu.Lock()
	delete(t.last, key)
	t.mu.Unlock()
}
