package eta_test

import (
	"fmt"
	"time"

	"github.com/psantana5/etatrack/pkg/eta"
)

// steppingClock advances a fixed amount on every reading, standing in
// for work that takes 50ms per unit.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

// A task of 100 units completing one unit every 50 milliseconds,
// sampled every 25 units.
func Example() {
	clock := &steppingClock{now: time.Unix(0, 0), step: 50 * time.Millisecond}
	est := eta.NewWithClock(10, 100, clock)

	for i := 0; i < 100; i++ {
		est.Tick()
		if i%25 == 0 {
			if d, ok := est.ETA(); ok {
				fmt.Printf("ETA: %.3fs\n", d.Seconds())
			} else {
				fmt.Println("ETA: unknown")
			}
		}
	}

	// Output:
	// ETA: unknown
	// ETA: 3.330s
	// ETA: 2.205s
	// ETA: 1.080s
}
