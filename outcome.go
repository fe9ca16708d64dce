package sbomstatus

import "time"

// OutcomeKind identifies how a run ended.
type OutcomeKind string

const (
	// OutcomeCompleted means the halting condition was met.
	OutcomeCompleted OutcomeKind = "complete"

	// OutcomeTimedOut means every attempt was used without the halting
	// condition being met. It is a normal result, not an error.
	OutcomeTimedOut OutcomeKind = "timeout"

	// OutcomeFailed means the run was aborted by an error.
	OutcomeFailed OutcomeKind = "failed"
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is the single result of a [Poller.Run].
//
// Outcome is built once when the run exits and is not modified afterwards.
// For [OutcomeCompleted] and [OutcomeTimedOut], Final is the last element
// of History.
type Outcome struct {
	// RunID is a unique identifier for the run, also attached to its logs.
	RunID string

	// Kind is how the run ended.
	Kind OutcomeKind

	// Final is the last observation made, or nil if no attempt was made.
	Final *Observation

	// History holds every observation in attempt order.
	History []Observation

	// Warnings holds non-fatal conditions noticed during the run.
	Warnings []string

	// Err is the fatal error for [OutcomeFailed], nil otherwise.
	Err error

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Attempts returns the number of fetches performed.
func (o Outcome) Attempts() int {
	return len(o.History)
}

// Tag returns the machine-readable status tag ("complete" or "timeout").
// Failed runs have no tag and return an empty string.
func (o Outcome) Tag() string {
	switch o.Kind {
	case OutcomeCompleted, OutcomeTimedOut:
		return string(o.Kind)
	default:
		return ""
	}
}

// Duration returns the wall-clock time the run took.
func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
