package testutil

import (
	"sync"
	"time"
)

// Epoch is the instant a DeterministicClock starts from.
var Epoch = time.Date(2024, time.April, 1, 18, 0, 0, 0, time.UTC)

// DeterministicClock stamps scripted events with reproducible timestamps.
//
// Each call to Next advances the clock by one second from Epoch, so the same
// script always produces byte-identical createdIso values.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a new deterministic clock starting at 0.
//
// The first call to Next() returns Epoch plus one second.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{seq: 0}
}

// Next advances the clock and returns the new instant.
func (c *DeterministicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return Epoch.Add(time.Duration(c.seq) * time.Second)
}

// NextISO is Next formatted as RFC 3339.
func (c *DeterministicClock) NextISO() string {
	return c.Next().Format(time.RFC3339)
}

// Current returns the number of ticks taken so far.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0.
//
// Used for test reuse. After Reset(), Next() starts again from Epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
