package sbomstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusClient fetches the current status of a BOM record.
//
// Implementations perform exactly one request per call and must not retry;
// retrying is the [Poller]'s job.
type StatusClient interface {
	FetchStatus(ctx context.Context, bomRecordID string) (Observation, error)
}

// Progress is passed to progress callbacks after every fetch.
type Progress struct {
	// Attempt is the 1-based attempt just completed.
	Attempt int

	// MaxAttempts is the configured attempt limit.
	MaxAttempts int

	// Observation is what the attempt returned.
	Observation Observation
}

// Fraction returns Attempt/MaxAttempts in the range [0, 1].
func (p Progress) Fraction() float64 {
	if p.MaxAttempts <= 0 {
		return 0
	}
	f := float64(p.Attempt) / float64(p.MaxAttempts)
	if f > 1 {
		return 1
	}
	return f
}

// Settings is the effective polling configuration of a [Poller], after
// defaults and floors have been applied.
type Settings struct {
	BOMRecordID            string        `json:"bomRecordId"`
	MaxAttempts            int           `json:"maxStatusPollAttempts"`
	Interval               time.Duration `json:"-"`
	FetchVulnerabilityInfo bool          `json:"fetchVulnerabilityInfo"`
	FetchPackageInfo       bool          `json:"fetchPackageInfo"`
}

// IntervalMillis returns the interval in milliseconds.
func (s Settings) IntervalMillis() int64 {
	return s.Interval.Milliseconds()
}

// WantsAdditionalInfo reports whether any enrichment dataset was requested.
func (s Settings) WantsAdditionalInfo() bool {
	return s.FetchVulnerabilityInfo || s.FetchPackageInfo
}

// MarshalJSON encodes the interval in milliseconds as statusAttemptInterval.
func (s Settings) MarshalJSON() ([]byte, error) {
	type plain Settings
	return json.Marshal(struct {
		plain
		StatusAttemptInterval int64 `json:"statusAttemptInterval"`
	}{plain(s), s.IntervalMillis()})
}

// Poller repeatedly fetches the status of one BOM record until it has been
// processed, the attempt limit is reached, or an error aborts the run.
//
// A Poller is created with [New] and driven with [Poller.Run]. It holds no
// per-run state, so Run may be called more than once, though not concurrently.
type Poller struct {
	client            StatusClient
	settings          Settings
	logger            *slog.Logger
	progressCallbacks []func(Progress)
	sleep             sleepFunc
}

// New creates a [Poller] for bomRecordID that fetches through client.
//
// Defaults:
//   - Max attempts: 5
//   - Interval: 10 seconds
//   - No enrichment datasets awaited
//
// An empty bomRecordID is accepted here and reported by [Poller.Run] as
// [ErrInsufficientData]. Returns an error if client is nil or an option fails.
func New(bomRecordID string, client StatusClient, opts ...Option) (*Poller, error) {
	if client == nil {
		return nil, errors.New("status client is required")
	}

	cfg := &pollConfig{
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultInterval,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		client: client,
		settings: Settings{
			BOMRecordID:            strings.TrimSpace(bomRecordID),
			MaxAttempts:            cfg.maxAttempts,
			Interval:               cfg.interval,
			FetchVulnerabilityInfo: cfg.fetchVulnerabilityInfo,
			FetchPackageInfo:       cfg.fetchPackageInfo,
		},
		logger:            logger,
		progressCallbacks: cfg.progressCallbacks,
		sleep:             cfg.sleep,
	}, nil
}

// Settings returns the effective configuration.
func (p *Poller) Settings() Settings {
	return p.settings
}

// run is the state of a single Run call.
type run struct {
	id      string
	attempt int
	history *History

	// waitForAdditionalInfo starts as the caller's request and is dropped
	// once the server says enrichment was never requested.
	waitForAdditionalInfo bool
	warnedDiscrepancy     bool
	warnings              []string

	logger    *slog.Logger
	startedAt time.Time
}

// Run polls until the record is processed, attempts run out, or an error
// occurs, and returns the single [Outcome] of the run.
//
// The returned error is nil for [OutcomeCompleted] and [OutcomeTimedOut].
// For [OutcomeFailed] it is one of [ErrInsufficientData], a [*TransportError],
// a [*RemoteError], or the context's error if ctx was cancelled while waiting
// between attempts; the same error is stored in Outcome.Err.
func (p *Poller) Run(ctx context.Context) (Outcome, error) {
	r := &run{
		id:                    uuid.NewString(),
		history:               NewHistory(p.settings.MaxAttempts),
		waitForAdditionalInfo: p.settings.WantsAdditionalInfo(),
		startedAt:             time.Now(),
	}
	r.logger = p.logger.With("run_id", r.id, "bom_record_id", p.settings.BOMRecordID)

	if p.settings.BOMRecordID == "" {
		return r.fail(ErrInsufficientData)
	}

	r.logger.Info("polling processing status",
		"max_attempts", p.settings.MaxAttempts,
		"interval", p.settings.Interval.String(),
		"wait_for_additional_info", r.waitForAdditionalInfo,
	)

	for {
		r.attempt++

		start := time.Now()
		obs, err := p.client.FetchStatus(ctx, p.settings.BOMRecordID)
		if err != nil {
			return r.fail(&TransportError{Attempt: r.attempt, Err: err})
		}
		obs.Attempt = r.attempt
		if obs.Latency == 0 {
			obs.Latency = time.Since(start)
		}
		if obs.CheckedAt.IsZero() {
			obs.CheckedAt = time.Now()
		}
		r.history.Append(obs)

		p.logAttempt(r, obs)
		p.notifyProgress(r, obs)

		if obs.IsError() {
			return r.fail(&RemoteError{Attempt: r.attempt, StatusCode: obs.StatusCode, Detail: obs.Detail})
		}

		p.checkDiscrepancy(r, obs)

		if r.halted(obs) {
			r.logger.Info("processing complete", "attempts", r.attempt)
			return r.finish(OutcomeCompleted, nil), nil
		}

		if r.attempt >= p.settings.MaxAttempts {
			r.logger.Warn("timed out before completion",
				"attempts", r.attempt,
				"upload_status", obs.UploadStatus,
				"additional_info_status", obs.AdditionalInfoStatus,
			)
			return r.finish(OutcomeTimedOut, nil), nil
		}

		if err := p.sleep(ctx, p.settings.Interval); err != nil {
			return r.fail(fmt.Errorf("polling interrupted after attempt %d: %w", r.attempt, err))
		}
	}
}

// halted reports whether polling can stop successfully: the upload is
// processed and, if enrichment is still awaited, enrichment is complete.
func (r *run) halted(obs Observation) bool {
	if obs.UploadStatus != UploadProcessed {
		return false
	}
	return !r.waitForAdditionalInfo || obs.AdditionalInfoStatus == AdditionalInfoComplete
}

// checkDiscrepancy stops waiting for enrichment the server will never
// produce. It warns at most once per run.
func (p *Poller) checkDiscrepancy(r *run, obs Observation) {
	if r.warnedDiscrepancy || !p.settings.WantsAdditionalInfo() {
		return
	}
	if obs.AdditionalInfoStatus != AdditionalInfoNotRequested {
		return
	}

	msg := "vulnerability or package information was requested, but the SBOM was uploaded " +
		"without requesting additional information; not waiting for it"
	r.warnings = append(r.warnings, msg)
	r.warnedDiscrepancy = true
	r.waitForAdditionalInfo = false

	r.logger.Warn("additional info discrepancy",
		"attempt", r.attempt,
		"fetch_vulnerability_info", p.settings.FetchVulnerabilityInfo,
		"fetch_package_info", p.settings.FetchPackageInfo,
		"additional_info_status", obs.AdditionalInfoStatus,
	)
}

func (p *Poller) logAttempt(r *run, obs Observation) {
	if !r.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	body, err := json.Marshal(obs)
	if err != nil {
		body = []byte(err.Error())
	}
	r.logger.Debug("status attempt response",
		"attempt", r.attempt,
		"latency_ms", obs.Latency.Milliseconds(),
		"response", string(body),
	)
}

// notifyProgress invokes every progress callback with panic recovery.
func (p *Poller) notifyProgress(r *run, obs Observation) {
	if len(p.progressCallbacks) == 0 {
		return
	}
	pr := Progress{Attempt: r.attempt, MaxAttempts: p.settings.MaxAttempts, Observation: obs}
	for _, cb := range p.progressCallbacks {
		invokeCallbackSafe(cb, pr, r.logger)
	}
}

// invokeCallbackSafe calls a progress callback with panic recovery.
// Panics are logged with a correlation ID and stack but do not propagate.
func invokeCallbackSafe(cb func(Progress), pr Progress, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("progress callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", rec),
				"attempt", pr.Attempt,
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(pr)
}

func (r *run) fail(err error) (Outcome, error) {
	return r.finish(OutcomeFailed, err), err
}

// finish builds the run's Outcome.
func (r *run) finish(kind OutcomeKind, err error) Outcome {
	out := Outcome{
		RunID:      r.id,
		Kind:       kind,
		History:    r.history.All(),
		Err:        err,
		StartedAt:  r.startedAt,
		FinishedAt: time.Now(),
	}
	if len(r.warnings) > 0 {
		out.Warnings = append([]string(nil), r.warnings...)
	}
	if last, ok := r.history.Last(); ok {
		out.Final = &last
	}
	return out
}
