package eta

import "time"

// Clock supplies the current time to an Estimator. Production code
// uses System; tests inject their own implementation to drive the
// estimator deterministically.
type Clock interface {
	Now() time.Time
}

// System is the Clock backed by the real time. Readings carry Go's
// monotonic component, so wall-clock adjustments do not distort the
// measured intervals.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }
