package sbomstatus

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// DefaultMaxAttempts is used when no positive attempt limit is configured.
	DefaultMaxAttempts = 5

	// DefaultInterval is the wait between attempts when none, or one that is
	// too short, is configured.
	DefaultInterval = 10 * time.Second

	// minInterval is the shortest interval that is honored as configured.
	// Anything at or below it is replaced by DefaultInterval.
	minInterval = 1 * time.Second
)

// sleepFunc suspends the run between attempts. It returns early with the
// context's error if ctx is cancelled.
type sleepFunc func(ctx context.Context, d time.Duration) error

// pollConfig holds mutable state during Poller construction.
type pollConfig struct {
	maxAttempts            int
	interval               time.Duration
	fetchVulnerabilityInfo bool
	fetchPackageInfo       bool
	logger                 *slog.Logger
	progressCallbacks      []func(Progress)
	sleep                  sleepFunc
}

// Option is a function that configures a [Poller] during construction.
//
// Built-in options: [WithMaxAttempts], [WithInterval],
// [WithFetchVulnerabilityInfo], [WithFetchPackageInfo], [WithLogger],
// [WithProgressCallback].
type Option func(*pollConfig) error

// EffectiveMaxAttempts applies the attempt limit rule: non-positive values
// fall back to [DefaultMaxAttempts].
func EffectiveMaxAttempts(n int) int {
	if n <= 0 {
		return DefaultMaxAttempts
	}
	return n
}

// EffectiveInterval applies the interval floor: values of one second or
// less are replaced by [DefaultInterval], longer values are kept as is.
func EffectiveInterval(d time.Duration) time.Duration {
	if d <= minInterval {
		return DefaultInterval
	}
	return d
}

// WithMaxAttempts sets how many status fetches are made before giving up.
//
// Non-positive values are not an error; they select [DefaultMaxAttempts].
func WithMaxAttempts(n int) Option {
	return func(cfg *pollConfig) error {
		cfg.maxAttempts = EffectiveMaxAttempts(n)
		return nil
	}
}

// WithInterval sets the wait between status fetches.
//
// Intervals of one second or less select [DefaultInterval].
//
// Example:
//
//	p, err := sbomstatus.New("bom-123", client,
//	    sbomstatus.WithInterval(30 * time.Second),
//	)
func WithInterval(d time.Duration) Option {
	return func(cfg *pollConfig) error {
		cfg.interval = EffectiveInterval(d)
		return nil
	}
}

// WithIntervalMillis is [WithInterval] for intervals expressed in milliseconds,
// the unit used by the statusAttemptInterval input.
func WithIntervalMillis(ms int) Option {
	return WithInterval(time.Duration(ms) * time.Millisecond)
}

// WithFetchVulnerabilityInfo makes the poller wait for vulnerability
// enrichment to complete before reporting success.
func WithFetchVulnerabilityInfo(enabled bool) Option {
	return func(cfg *pollConfig) error {
		cfg.fetchVulnerabilityInfo = enabled
		return nil
	}
}

// WithFetchPackageInfo makes the poller wait for package health enrichment
// to complete before reporting success.
func WithFetchPackageInfo(enabled bool) Option {
	return func(cfg *pollConfig) error {
		cfg.fetchPackageInfo = enabled
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Poller.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *pollConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithProgressCallback registers a function called after every fetch.
//
// Callbacks run synchronously on the polling goroutine, in registration
// order, and must not block. Panics are recovered and logged.
//
// Example:
//
//	p, err := sbomstatus.New(id, client,
//	    sbomstatus.WithProgressCallback(func(pr sbomstatus.Progress) {
//	        fmt.Printf("attempt %d/%d: %s\n", pr.Attempt, pr.MaxAttempts, pr.Observation.UploadStatus)
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithProgressCallback(cb func(Progress)) Option {
	return func(cfg *pollConfig) error {
		if cb == nil {
			return nil
		}
		cfg.progressCallbacks = append(cfg.progressCallbacks, cb)
		return nil
	}
}

// withSleep replaces the suspension between attempts.
func withSleep(fn sleepFunc) Option {
	return func(cfg *pollConfig) error {
		if fn == nil {
			return errors.New("sleep function cannot be nil")
		}
		cfg.sleep = fn
		return nil
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
