package sbomstatus

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned by [Poller.Run] when no BOM record ID was
// configured. No request is made in that case.
var ErrInsufficientData = errors.New("insufficient data: missing bomRecordId")

// ErrPollExhausted is returned by callers that need to turn a timed out
// [Outcome] into a failure. [Poller.Run] itself never returns it.
var ErrPollExhausted = errors.New("the maximum status poll attempts has been reached")

// TransportError wraps a failure to fetch or decode a status response.
//
// Transport errors are not retried: a single failed fetch aborts the run.
type TransportError struct {
	// Attempt is the 1-based attempt that failed.
	Attempt int

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("status request failed on attempt %d: %v", e.Attempt, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is returned when the status endpoint reports an error for the
// record being polled.
type RemoteError struct {
	// Attempt is the 1-based attempt that observed the error.
	Attempt int

	// StatusCode is the code reported by the server, if any.
	StatusCode int

	// Detail is the server's description of the failure.
	Detail string
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("status endpoint reported an error (code %d) on attempt %d: %s", e.StatusCode, e.Attempt, e.Detail)
	}
	return fmt.Sprintf("status endpoint reported an error on attempt %d: %s", e.Attempt, e.Detail)
}
