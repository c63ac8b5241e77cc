package eta

import (
	"math"
	"testing"
	"time"
)

// fakeClock hands out timestamps a fixed step apart, one per Now call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestETANoEstimate(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		total    int
		ticks    int
	}{
		{name: "fresh estimator", capacity: 10, total: 100, ticks: 0},
		{name: "single tick", capacity: 10, total: 100, ticks: 1},
		{name: "all work done", capacity: 10, total: 100, ticks: 100},
		{name: "overrun", capacity: 10, total: 100, ticks: 200},
		{name: "zero total", capacity: 10, total: 0, ticks: 5},
		{name: "zero capacity window", capacity: 0, total: 100, ticks: 50},
		{name: "capacity one", capacity: 1, total: 100, ticks: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithClock(tt.capacity, tt.total, newFakeClock(50*time.Millisecond))
			for i := 0; i < tt.ticks; i++ {
				e.Tick()
			}
			if d, ok := e.ETA(); ok {
				t.Errorf("ETA() = (%v, true), want no estimate", d)
			}
		})
	}
}

func TestETAEstimatePresent(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
	}{
		{name: "two ticks", ticks: 2},
		{name: "four ticks", ticks: 4},
		{name: "nine ticks", ticks: 9},
		{name: "thirty ticks", ticks: 30},
		{name: "ninety-nine ticks", ticks: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithClock(10, 100, newFakeClock(50*time.Millisecond))
			for i := 0; i < tt.ticks; i++ {
				e.Tick()
			}
			d, ok := e.ETA()
			if !ok {
				t.Fatalf("ETA() reported no estimate after %d of 100 ticks", tt.ticks)
			}
			if d < 0 {
				t.Errorf("ETA() = %v, want non-negative", d)
			}
		})
	}
}

func TestETADividesByTimestampCount(t *testing.T) {
	// Ten stamps 10ms apart sum to 90ms of gaps. The mean divides by
	// the ten held timestamps, giving 9ms, not 10ms.
	e := NewWithClock(10, 100, newFakeClock(10*time.Millisecond))
	for i := 0; i < 50; i++ {
		e.Tick()
	}

	d, ok := e.ETA()
	if !ok {
		t.Fatal("ETA() reported no estimate")
	}
	want := 9 * time.Millisecond * 50 // mean * remaining
	if d != want {
		t.Errorf("ETA() = %v, want %v", d, want)
	}
	if got := e.MeanInterval(); got != 9*time.Millisecond {
		t.Errorf("MeanInterval() = %v, want 9ms", got)
	}
}

func TestETATruncatesTowardZero(t *testing.T) {
	// Four stamps 10ms apart sum to 30ms; dividing by the four
	// timestamps gives 7.5ms, which truncates to 7ms.
	e := NewWithClock(10, 100, newFakeClock(10*time.Millisecond))
	for i := 0; i < 4; i++ {
		e.Tick()
	}

	d, ok := e.ETA()
	if !ok {
		t.Fatal("ETA() reported no estimate")
	}
	want := 7 * time.Millisecond * 96
	if d != want {
		t.Errorf("ETA() = %v, want %v", d, want)
	}
}

func TestETAConstantSpacing(t *testing.T) {
	const (
		step     = 50 * time.Millisecond
		capacity = 10
		total    = 100
	)

	tests := []struct {
		name  string
		ticks int
	}{
		{name: "window partly filled", ticks: 5},
		{name: "window exactly full", ticks: 10},
		{name: "window rolling", ticks: 60},
		{name: "last unit pending", ticks: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithClock(capacity, total, newFakeClock(step))
			for i := 0; i < tt.ticks; i++ {
				e.Tick()
			}

			held := tt.ticks
			if held > capacity {
				held = capacity
			}
			meanMillis := int64(held-1) * step.Milliseconds() / int64(held)
			want := time.Duration(meanMillis*int64(total-tt.ticks)) * time.Millisecond

			d, ok := e.ETA()
			if !ok {
				t.Fatalf("ETA() reported no estimate after %d ticks", tt.ticks)
			}
			if d != want {
				t.Errorf("ETA() = %v, want %v", d, want)
			}
		})
	}
}

func TestETAIsIdempotent(t *testing.T) {
	e := NewWithClock(10, 100, newFakeClock(25*time.Millisecond))
	for i := 0; i < 10; i++ {
		e.Tick()
	}

	first, firstOK := e.ETA()
	for i := 0; i < 5; i++ {
		d, ok := e.ETA()
		if d != first || ok != firstOK {
			t.Fatalf("repeated ETA() = (%v, %v), want (%v, %v)", d, ok, first, firstOK)
		}
	}
}

func TestETASaturatesOnOverflow(t *testing.T) {
	e := NewWithClock(10, math.MaxInt, newFakeClock(time.Hour))
	e.Tick()
	e.Tick()

	d, ok := e.ETA()
	if !ok {
		t.Fatal("ETA() reported no estimate")
	}
	if d != time.Duration(math.MaxInt64) {
		t.Errorf("ETA() = %v, want the saturated maximum duration", d)
	}
}

func TestEstimatorState(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		total    int
		ticks    int
		want     State
	}{
		{name: "fresh", capacity: 10, total: 100, ticks: 0, want: StateWarming},
		{name: "one tick", capacity: 10, total: 100, ticks: 1, want: StateWarming},
		{name: "estimating", capacity: 10, total: 100, ticks: 50, want: StateEstimating},
		{name: "complete", capacity: 10, total: 100, ticks: 100, want: StateComplete},
		{name: "overrun", capacity: 10, total: 100, ticks: 101, want: StateOverrun},
		{name: "zero total starts complete", capacity: 10, total: 0, ticks: 0, want: StateComplete},
		{name: "zero total overruns on first tick", capacity: 10, total: 0, ticks: 1, want: StateOverrun},
		{name: "starved window stays warming", capacity: 0, total: 100, ticks: 50, want: StateWarming},
		{name: "terminal state beats starved window", capacity: 0, total: 100, ticks: 100, want: StateComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithClock(tt.capacity, tt.total, newFakeClock(time.Millisecond))
			for i := 0; i < tt.ticks; i++ {
				e.Tick()
			}
			if got := e.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateWarming, "warming"},
		{StateEstimating, "estimating"},
		{StateComplete, "complete"},
		{StateOverrun, "overrun"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestEstimatorCounters(t *testing.T) {
	e := NewWithClock(5, 8, newFakeClock(20*time.Millisecond))

	if got := e.Total(); got != 8 {
		t.Errorf("Total() = %d, want 8", got)
	}

	for i := 0; i < 3; i++ {
		e.Tick()
	}
	if got := e.Completed(); got != 3 {
		t.Errorf("Completed() = %d, want 3", got)
	}
	if got := e.Remaining(); got != 5 {
		t.Errorf("Remaining() = %d, want 5", got)
	}
	if got := e.WindowLen(); got != 3 {
		t.Errorf("WindowLen() = %d, want 3", got)
	}
	// Three stamps 20ms apart: 40ms of gaps over three timestamps.
	if got := e.MeanInterval(); got != 13*time.Millisecond {
		t.Errorf("MeanInterval() = %v, want 13ms", got)
	}

	for i := 0; i < 10; i++ {
		e.Tick()
	}
	if got := e.Remaining(); got != 0 {
		t.Errorf("Remaining() after overrun = %d, want 0", got)
	}
}

func TestNegativeTotalClampsToZero(t *testing.T) {
	e := NewWithClock(10, -5, newFakeClock(time.Millisecond))

	if got := e.Total(); got != 0 {
		t.Fatalf("Total() = %d, want 0", got)
	}
	if got := e.State(); got != StateComplete {
		t.Errorf("State() = %v, want %v", got, StateComplete)
	}
}
