package sbomstatus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// MockStatusClient implements StatusClient for testing.
//
// Each call returns the next scripted observation; once the script is
// exhausted the last entry repeats. FetchFn, when set, takes precedence.
type MockStatusClient struct {
	Observations []Observation
	FetchFn      func(ctx context.Context, id string) (Observation, error)

	Calls []string
}

func (m *MockStatusClient) FetchStatus(ctx context.Context, id string) (Observation, error) {
	m.Calls = append(m.Calls, id)
	if m.FetchFn != nil {
		return m.FetchFn(ctx, id)
	}
	if len(m.Observations) == 0 {
		return Observation{UploadStatus: UploadPending}, nil
	}
	i := len(m.Calls) - 1
	if i >= len(m.Observations) {
		i = len(m.Observations) - 1
	}
	return m.Observations[i], nil
}

// recordingSleep returns a sleep function that records requested durations
// without waiting.
func recordingSleep(slept *[]time.Duration) Option {
	return withSleep(func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return ctx.Err()
	})
}

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errMockFailure = errors.New("mock failure")
