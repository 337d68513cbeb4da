package core

import (
	"sync"
	"time"
)

// Clock abstracts the time source driving the planner so a run can be driven
// by real time or by an injected simulated timeline.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// SimulatedClock is a mutable Clock for deterministic runs and tests. It is
// safe for concurrent access.
type SimulatedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewSimulatedClock creates a clock frozen at the given instant.
func NewSimulatedClock(now time.Time) *SimulatedClock {
	return &SimulatedClock{now: now}
}

// Now returns the current simulated instant.
func (c *SimulatedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to an absolute instant.
func (c *SimulatedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SetTimeOfDay keeps the current date and moves the clock to hour:minute.
func (c *SimulatedClock) SetTimeOfDay(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.now.Date()
	c.now = time.Date(y, m, d, hour, minute, 0, 0, c.now.Location())
}

// Advance moves the clock forward by d.
func (c *SimulatedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
