package testutil

import (
	"sync"
	"time"
)

// Clock is a controllable time source for tests. It satisfies the animate
// package's Clock interface and the engine's clock option, letting tests
// drive sessions and momentum runs across a virtual timeline instead of
// waiting out real durations.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock creates a clock starting at the given time.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to an absolute time.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
