// Package progress makes the estimation core usable from concurrent
// callers and owns the display formatting of its figures. The core
// itself performs no locking, so every access here goes through one
// mutex.
package progress

import (
	"sync"
	"time"

	"github.com/psantana5/etatrack/pkg/eta"
)

// Snapshot is a point-in-time view of a tracked task. Durations are
// carried as whole milliseconds so snapshots serialize the same way
// over JSON, YAML and logs.
type Snapshot struct {
	Completed          int       `json:"completed"`
	Total              int       `json:"total"`
	Remaining          int       `json:"remaining"`
	Percent            float64   `json:"percent"`
	State              string    `json:"state"`
	HasETA             bool      `json:"has_eta"`
	ETAMillis          int64     `json:"eta_ms"`
	MeanIntervalMillis int64     `json:"mean_interval_ms"`
	ElapsedMillis      int64     `json:"elapsed_ms"`
	UnitsPerSecond     float64   `json:"units_per_second"`
	StartedAt          time.Time `json:"started_at"`
}

// ETA returns the projected remaining duration and whether the
// snapshot carried one.
func (s Snapshot) ETA() (time.Duration, bool) {
	return time.Duration(s.ETAMillis) * time.Millisecond, s.HasETA
}

// Tracker wraps a single estimator for concurrent producers.
type Tracker struct {
	mu        sync.Mutex
	est       *eta.Estimator
	clock     eta.Clock
	startedAt time.Time
}

// NewTracker creates a tracker for total units of work, averaging
// over the windowCapacity most recent completions.
func NewTracker(windowCapacity, total int) *Tracker {
	return NewTrackerWithClock(windowCapacity, total, eta.System{})
}

// NewTrackerWithClock is NewTracker with an explicit time source.
func NewTrackerWithClock(windowCapacity, total int, clock eta.Clock) *Tracker {
	return &Tracker{
		est:       eta.NewWithClock(windowCapacity, total, clock),
		clock:     clock,
		startedAt: clock.Now(),
	}
}

// Tick records one completed unit. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.est.Tick()
}

// Snapshot returns a consistent view of the task's progress.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.est.ETA()
	elapsed := t.clock.Now().Sub(t.startedAt)

	snap := Snapshot{
		Completed:          t.est.Completed(),
		Total:              t.est.Total(),
		Remaining:          t.est.Remaining(),
		Percent:            percent(t.est.Completed(), t.est.Total()),
		State:              t.est.State().String(),
		HasETA:             ok,
		ETAMillis:          d.Milliseconds(),
		MeanIntervalMillis: t.est.MeanInterval().Milliseconds(),
		ElapsedMillis:      elapsed.Milliseconds(),
		StartedAt:          t.startedAt,
	}
	if sec := elapsed.Seconds(); sec > 0 {
		snap.UnitsPerSecond = float64(snap.Completed) / sec
	}
	return snap
}

// percent maps completed/total onto 0..100. A zero total counts as
// fully complete, and overruns cap at 100.
func percent(completed, total int) float64 {
	if total <= 0 {
		return 100
	}
	p := float64(completed) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}
