// Package testutil provides shared test helpers.
package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe, settable wall clock for tests.
//
// Due dates and created/updated stamps are pure functions of the clock, so
// pinning it makes reconciliation output fully deterministic and lets tests
// assert exact dates instead of "roughly now".
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned to t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the pinned instant. Satisfies the Clock interfaces in the
// recon and intents packages.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set pins the clock to a new instant.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d. Used to simulate a later
// reconciliation pass within one test.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
