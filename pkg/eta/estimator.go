// Package eta estimates the remaining time of unit-counted work from
// the arrival times of its most recent completions.
//
// Construct an Estimator with the expected number of units, call Tick
// after each finished unit, and call ETA whenever a projection is
// wanted. The package does no locking, no I/O and keeps no global
// state; callers that share an estimator across goroutines must
// synchronize around it.
package eta

import (
	"math"
	"time"
)

// State classifies the regime an estimator is in. It refines the
// presence/absence result of ETA: every state other than
// StateEstimating reports no estimate.
type State int

const (
	// StateWarming means the window holds fewer than two timestamps,
	// not enough to derive an interval.
	StateWarming State = iota
	// StateEstimating means an estimate is available.
	StateEstimating
	// StateComplete means all declared units are done.
	StateComplete
	// StateOverrun means Tick was called more times than the declared
	// total, so a projection would be meaningless.
	StateOverrun
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateWarming:
		return "warming"
	case StateEstimating:
		return "estimating"
	case StateComplete:
		return "complete"
	case StateOverrun:
		return "overrun"
	default:
		return "unknown"
	}
}

// Estimator projects the remaining time of a unit-counted task from
// the arrival times of its most recent completions.
//
// The zero value is not usable; construct with New or NewWithClock.
// An Estimator assumes exclusive single-owner access and performs no
// internal synchronization.
type Estimator struct {
	window    *Window
	clock     Clock
	completed int
	total     int
}

// New creates an estimator for total units of work, averaging over
// the windowCapacity most recent completions. Both arguments may be
// zero: a zero-capacity window never yields an estimate, and a zero
// total describes work that is already complete. Negative values are
// treated as zero.
func New(windowCapacity, total int) *Estimator {
	return NewWithClock(windowCapacity, total, System{})
}

// NewWithClock is New with an explicit time source.
func NewWithClock(windowCapacity, total int, clock Clock) *Estimator {
	if total < 0 {
		total = 0
	}
	return &Estimator{
		window: NewWindow(windowCapacity),
		clock:  clock,
		total:  total,
	}
}

// Tick records that one unit of work just completed. It never fails
// and performs no bounds check against the total: ticking past the
// declared total is legal and turns later ETA calls into "no
// estimate".
func (e *Estimator) Tick() {
	e.completed++
	e.window.Insert(e.clock.Now())
}

// ETA returns the projected remaining duration and whether a usable
// estimate exists. No estimate is reported while fewer than two
// completions are on record, once the task has overrun its declared
// total, or once nothing remains to do. The three causes are not
// distinguished here; call State, or compare Completed against Total,
// to tell them apart.
//
// The projection is the mean inter-arrival interval of the windowed
// completions multiplied by the remaining unit count. Intervals are
// summed in whole milliseconds and the mean divides that sum by the
// number of windowed timestamps, truncating toward zero. If the
// multiplication exceeds the range of time.Duration, the result
// saturates at the maximum representable duration.
//
// ETA never mutates the estimator: calls without an intervening Tick
// return identical results.
func (e *Estimator) ETA() (time.Duration, bool) {
	mean, ok := e.meanIntervalMillis()
	if !ok {
		return 0, false
	}
	if e.completed > e.total {
		return 0, false
	}
	remaining := e.total - e.completed
	if remaining == 0 {
		return 0, false
	}
	return saturatingDuration(mean, int64(remaining)), true
}

// State reports which regime the estimator is in. Overrun and
// complete take precedence over warming: once the completed count
// reaches a terminal condition, the window's fill level no longer
// matters.
func (e *Estimator) State() State {
	switch {
	case e.completed > e.total:
		return StateOverrun
	case e.completed == e.total:
		return StateComplete
	case e.window.Len() < 2:
		return StateWarming
	default:
		return StateEstimating
	}
}

// Completed returns the number of units recorded so far.
func (e *Estimator) Completed() int { return e.completed }

// Total returns the unit count declared at construction.
func (e *Estimator) Total() int { return e.total }

// Remaining returns the units left to complete, or zero once the task
// is complete or overrun.
func (e *Estimator) Remaining() int {
	if e.completed >= e.total {
		return 0
	}
	return e.total - e.completed
}

// WindowLen returns how many completion timestamps are on record.
func (e *Estimator) WindowLen() int { return e.window.Len() }

// MeanInterval returns the current mean inter-arrival interval, or
// zero while fewer than two completions are on record.
func (e *Estimator) MeanInterval() time.Duration {
	mean, ok := e.meanIntervalMillis()
	if !ok {
		return 0
	}
	return time.Duration(mean) * time.Millisecond
}

// meanIntervalMillis returns the mean gap between consecutive
// windowed timestamps in whole milliseconds. The sum is divided by
// the number of timestamps, not the number of gaps.
func (e *Estimator) meanIntervalMillis() (int64, bool) {
	stamps := e.window.Items()
	if len(stamps) < 2 {
		return 0, false
	}
	var sum int64
	for i := 1; i < len(stamps); i++ {
		sum += stamps[i].Sub(stamps[i-1]).Milliseconds()
	}
	return sum / int64(len(stamps)), true
}

// saturatingDuration converts meanMillis*remaining into a Duration,
// clamping at the maximum representable duration instead of wrapping.
func saturatingDuration(meanMillis, remaining int64) time.Duration {
	if meanMillis <= 0 || remaining <= 0 {
		return 0
	}
	if meanMillis > math.MaxInt64/remaining {
		return time.Duration(math.MaxInt64)
	}
	millis := meanMillis * remaining
	if millis > math.MaxInt64/int64(time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(millis) * time.Millisecond
}
