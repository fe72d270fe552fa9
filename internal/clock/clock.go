// Package clock provides the time source used by the contest and social services.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current instant. Services read it once per operation.
type Clock interface {
	Now() time.Time
}

// System is the wall clock, always reported in UTC.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a manual clock fixed at the given instant.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now.UTC()}
}

// Now returns the instant the clock is currently set to.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to the given instant.
func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now.UTC()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
