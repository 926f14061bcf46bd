// Package clock injects wall time so admission and lifecycle rules can be
// exercised at fixed instants.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC, matching the timestamptz columns the
// deadlines are compared against.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Fixed stands still until a test moves it.
type Fixed struct {
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time { return c.now }

func (c *Fixed) Set(now time.Time) { c.now = now }

func (c *Fixed) Advance(d time.Duration) { c.now = c.now.Add(d) }
