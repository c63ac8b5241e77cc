// Package workload produces the simulated units the run command
// consumes: one value per unit, paced by a rate limiter, optionally
// spread by random jitter.
package workload

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Config describes a simulated task.
type Config struct {
	Units    int           // units to emit
	Interval time.Duration // target time per unit
	Jitter   time.Duration // random extra delay, up to this much
	Seed     int64         // jitter seed; 0 seeds from the clock
}

// Source emits unit indexes at the configured pace.
type Source struct {
	units   int
	jitter  time.Duration
	limiter *rate.Limiter
	rng     *rand.Rand
}

// New creates a source. A zero or negative interval emits as fast as
// the consumer can keep up.
func New(cfg Config) *Source {
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	units := cfg.Units
	if units < 0 {
		units = 0
	}

	return &Source{
		units:   units,
		jitter:  cfg.Jitter,
		limiter: rate.NewLimiter(limit, 1),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Run emits unit indexes on the returned channel until every unit is
// done or ctx is cancelled, then closes it.
func (s *Source) Run(ctx context.Context) <-chan int {
	out := make(chan int)
	go func() {
		defer close(out)
		for i := 0; i < s.units; i++ {
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			if s.jitter > 0 {
				sleep := time.Duration(s.rng.Int63n(int64(s.jitter)))
				select {
				case <-time.After(sleep):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
