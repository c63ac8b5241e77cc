// Package retry runs an operation under a capped exponential backoff
// schedule. The watch command uses it to ride out restarts of the run
// it is following.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls the backoff schedule for Do.
type Config struct {
	MaxRetries     int           // retries after the first attempt
	InitialBackoff time.Duration // sleep before the first retry
	MaxBackoff     time.Duration // backoff growth stops here
	Multiplier     float64       // growth factor between attempts
}

// DefaultConfig suits polling an endpoint on the local machine or LAN.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	}
}

// Do runs fn until it succeeds, the retry budget is spent, or ctx is
// done, sleeping with exponential backoff between attempts.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}
