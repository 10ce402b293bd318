// Package clock gates simulation steps to a fixed interval derived from the
// difficulty, independent of the render frame rate.
package clock

import (
	"time"

	"github.com/tomz197/snake/internal/difficulty"
)

// Clock accumulates frame time and reports when one step is due. Missed
// intervals are never batched: a single Advance yields at most one step and
// discards the remainder.
type Clock struct {
	interval time.Duration
	elapsed  time.Duration
}

// New returns a clock ticking at the level's interval.
func New(level difficulty.Level) *Clock {
	return &Clock{interval: level.Interval()}
}

// Interval returns the current step interval.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Advance adds delta to the accumulator and reports whether a step is due.
func (c *Clock) Advance(delta time.Duration) bool {
	if delta > 0 {
		c.elapsed += delta
	}
	if c.elapsed < c.interval {
		return false
	}
	c.elapsed = 0
	return true
}

// Reset drops any partially accumulated time, e.g. on pause.
func (c *Clock) Reset() {
	c.elapsed = 0
}

// SpeedUp scales the interval by factor (0 < factor < 1 to accelerate),
// never going below min.
func (c *Clock) SpeedUp(factor float64, min time.Duration) {
	next := time.Duration(float64(c.interval) * factor)
	if next < min {
		next = min
	}
	c.interval = next
}
