// Package retry provides bounded polling and retry primitives for remote
// operations that converge asynchronously.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// timeNow is swapped in tests to make elapsed-time behavior deterministic.
var timeNow = time.Now

// ErrWallClock is wrapped into the error returned when a poll aborts
// because its wall-clock limit elapsed before the attempt budget did.
var ErrWallClock = errors.New("wall clock limit exceeded")

// Config holds retry configuration.
type Config struct {
	// Attempts is the poll budget for Do and Hold.
	Attempts int
	// Interval is the fixed sleep between poll attempts.
	Interval time.Duration
	// WallClock caps total elapsed time regardless of attempts remaining.
	// Zero means no cap.
	WallClock time.Duration

	// Exponential backoff settings, used by WithExponentialBackoff only.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// WithAttempts sets the poll budget.
func WithAttempts(n int) Option {
	return func(c *Config) {
		c.Attempts = n
	}
}

// WithInterval sets the fixed sleep between poll attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithWallClock caps the total elapsed time of a poll. Join-waiting uses
// this to bound the wait when individual attempts are themselves slow.
func WithWallClock(d time.Duration) Option {
	return func(c *Config) {
		c.WallClock = d
	}
}

// Do polls operation at a fixed interval until it returns nil, returns a
// fatal error, exceeds the wall-clock limit, or exhausts the attempt
// budget. Transient errors are remembered, never surfaced individually;
// only the last one is attached to the exhaustion error.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		Attempts: 60,
		Interval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	start := timeNow()
	var lastErr error

	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return err
		}
		if cfg.WallClock > 0 {
			if elapsed := timeNow().Sub(start); elapsed > cfg.WallClock {
				return fmt.Errorf("%w after %s: %w", ErrWallClock, elapsed.Round(time.Second), lastErr)
			}
		}

		if attempt < cfg.Attempts-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
			case <-time.After(cfg.Interval):
			}
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", cfg.Attempts, lastErr)
}

// Hold polls condition until it has held continuously for holdFor. The
// observation window starts at entry and restarts whenever the condition
// stops holding or the query fails, so a momentary dip forces the full
// duration to accumulate again. Query errors count against the attempt
// budget like any other miss unless fatal.
func Hold(ctx context.Context, condition func() (bool, error), holdFor time.Duration, opts ...Option) error {
	cfg := &Config{
		Attempts: 60,
		Interval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	windowStart := timeNow()
	var lastErr error

	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		ok, err := condition()
		switch {
		case err != nil:
			if IsFatal(err) {
				return err
			}
			lastErr = err
			windowStart = timeNow()
		case !ok:
			windowStart = timeNow()
		default:
			if timeNow().Sub(windowStart) >= holdFor {
				return nil
			}
		}

		if attempt < cfg.Attempts-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
			case <-time.After(cfg.Interval):
			}
		}
	}

	if lastErr != nil {
		return fmt.Errorf("condition did not hold for %s within %d attempts: %w", holdFor, cfg.Attempts, lastErr)
	}
	return fmt.Errorf("condition did not hold for %s within %d attempts", holdFor, cfg.Attempts)
}

// WithExponentialBackoff executes the operation with exponential backoff
// retry. It retries the operation up to MaxRetries times, with
// exponentially increasing delays between attempts. Context cancellation
// is respected throughout.
//
// Errors wrapped with Fatal() are not retried.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		MaxRetries:   5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", cfg.MaxRetries+1, lastErr)
}

// WithMaxRetries sets the maximum number of retries for exponential backoff.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the initial delay between backoff retries.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between backoff retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable). Polls that encounter
// fatal errors abort immediately instead of consuming budget.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
