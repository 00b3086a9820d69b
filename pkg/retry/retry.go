package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Config controls the backoff schedule for RetryWithResult.
type Config struct {
	Attempts   int           // total call attempts, including the first
	BaseDelay  time.Duration // delay after the first failure
	MaxDelay   time.Duration // upper bound for a single delay
	Multiplier float64       // growth factor between delays
	Jitter     bool          // randomize each delay to avoid lockstep reconnects
}

// DefaultConfig suits startup dependencies such as the database connect:
// a few quick attempts, then give up so the fallback path can take over.
func DefaultConfig() Config {
	return Config{
		Attempts:   4,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// RetryWithResult calls fn until it succeeds, the attempts are exhausted,
// or ctx is cancelled. The last error is wrapped in the final failure.
func RetryWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("retry cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.Attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delayFor(cfg, attempt)):
		}
	}

	return zero, fmt.Errorf("all %d attempts failed: %w", cfg.Attempts, lastErr)
}

// delayFor returns the wait before the attempt following the given one.
// With jitter the delay lands uniformly in [d/2, d].
func delayFor(cfg Config, attempt int) time.Duration {
	d := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if d > float64(cfg.MaxDelay) {
		d = float64(cfg.MaxDelay)
	}

	if cfg.Jitter {
		half := d / 2
		d = half + rand.Float64()*half
	}

	return time.Duration(d)
}
