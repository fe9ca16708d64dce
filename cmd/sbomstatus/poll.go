package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sbomstatus"
	"github.com/jpalmerr/sbomstatus/config"
	"github.com/jpalmerr/sbomstatus/internal/actions"
	"github.com/jpalmerr/sbomstatus/internal/report"
)

// Output names consumed by later workflow steps.
const (
	outputStatusState       = "statusState"
	outputAPIResponseObject = "apiResponseObject"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// pollCmd polls the status endpoint until the upload is processed.
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the upload status until processed",
	Long: `Poll the SBOM upload status endpoint until the upload has been processed.

Configuration is read from the file given with --config. Without --config
the GitHub Action inputs (INPUT_* environment variables) are used. Flags
override either source.

When GITHUB_OUTPUT is set, the outputs statusState ("complete" or "timeout")
and apiResponseObject (the final status response) are written. When
GITHUB_STEP_SUMMARY is set, a markdown summary is appended.

Exit codes:
  0 - Upload processed
  1 - Timed out, the server reported an error, or the request failed

Example:
  sbomstatus poll -c sbomstatus.yaml
  sbomstatus poll -c sbomstatus.yaml --record-id 0a1b2c3d --max-attempts 20`,
	RunE: runPoll,
}

func init() {
	rootCmd.AddCommand(pollCmd)

	flags := pollCmd.Flags()
	flags.StringP("config", "c", "", "path to config file (default: GitHub Action inputs)")
	flags.String("record-id", "", "BOM record ID to poll")
	flags.Int("max-attempts", 0, "maximum status poll attempts (non-positive selects 5)")
	flags.Int("interval-ms", 0, "milliseconds between attempts (1000 or less selects 10000)")
	flags.Bool("fetch-vulnerability-info", false, "wait for vulnerability information")
	flags.Bool("fetch-package-info", false, "wait for package information")
	flags.BoolP("verbose", "v", false, "log every status response")
	flags.Bool("no-progress", false, "do not print a progress bar")
}

func runPoll(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	runner := actions.FromEnv()
	runner.Stdout = cmd.OutOrStdout()

	cfg, err := loadPollConfig(cmd, runner)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("action arguments",
		"instance_url", cfg.InstanceURL,
		"bom_record_id", cfg.BOMRecordID,
		"max_status_poll_attempts", cfg.MaxStatusPollAttempts,
		"status_attempt_interval", cfg.StatusAttemptInterval,
		"fetch_vulnerability_info", cfg.FetchVulnerabilityInfo,
		"fetch_package_info", cfg.FetchPackageInfo,
	)

	opts := []sbomstatus.Option{sbomstatus.WithLogger(logger)}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		pp := report.NewProgressPrinter(cmd.ErrOrStderr())
		opts = append(opts, sbomstatus.WithProgressCallback(pp.Print))
	}
	if runner.Detected() {
		opts = append(opts, sbomstatus.WithProgressCallback(debugResponse(runner)))
	}

	p, client, err := config.BuildPoller(cfg, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	// cancel between attempts on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, runErr := p.Run(ctx)
	return finishPoll(cmd.OutOrStdout(), runner, logger, outcome, p.Settings(), runErr)
}

// loadPollConfig reads the config file or the action inputs and applies
// flag overrides.
func loadPollConfig(cmd *cobra.Command, runner *actions.Runner) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FromInputs(runner.Input)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("record-id") {
		cfg.BOMRecordID, _ = flags.GetString("record-id")
	}
	if flags.Changed("max-attempts") {
		cfg.MaxStatusPollAttempts, _ = flags.GetInt("max-attempts")
	}
	if flags.Changed("interval-ms") {
		cfg.StatusAttemptInterval, _ = flags.GetInt("interval-ms")
	}
	if flags.Changed("fetch-vulnerability-info") {
		cfg.FetchVulnerabilityInfo, _ = flags.GetBool("fetch-vulnerability-info")
	}
	if flags.Changed("fetch-package-info") {
		cfg.FetchPackageInfo, _ = flags.GetBool("fetch-package-info")
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finishPoll reports the outcome and maps it to the command's result.
func finishPoll(out io.Writer, runner *actions.Runner, logger *slog.Logger, outcome sbomstatus.Outcome, settings sbomstatus.Settings, runErr error) error {
	inActions := runner.Detected()
	if inActions {
		for _, w := range outcome.Warnings {
			runner.Warning(w)
		}
	}

	doc := report.Build(outcome, settings)
	if err := report.Terminal(out, doc); err != nil {
		logger.Warn("failed to write report", "error", err)
	}

	switch outcome.Kind {
	case sbomstatus.OutcomeCompleted:
		writeSummary(runner, logger, doc)
		if err := runner.SetOutput(outputStatusState, outcome.Tag()); err != nil {
			return fmt.Errorf("failed to set output: %w", err)
		}
		if outcome.Final != nil {
			body, err := report.ResponseJSON(*outcome.Final)
			if err != nil {
				return fmt.Errorf("failed to encode final response: %w", err)
			}
			if err := runner.SetOutput(outputAPIResponseObject, string(body)); err != nil {
				return fmt.Errorf("failed to set output: %w", err)
			}
		}
		logger.Info("status polling complete",
			"run_id", outcome.RunID,
			"attempts", outcome.Attempts(),
			"duration", outcome.Duration().String(),
		)
		return nil

	case sbomstatus.OutcomeTimedOut:
		writeSummary(runner, logger, doc)
		if err := runner.SetOutput(outputStatusState, outcome.Tag()); err != nil {
			return fmt.Errorf("failed to set output: %w", err)
		}
		if inActions {
			runner.Error(sbomstatus.ErrPollExhausted.Error())
		}
		return sbomstatus.ErrPollExhausted

	default:
		if runErr == nil {
			runErr = errors.New("status polling failed")
		}
		logger.Error("status polling failed",
			"run_id", outcome.RunID,
			"attempts", outcome.Attempts(),
			"error", runErr.Error(),
		)
		if inActions {
			runner.Error(runErr.Error())
		}
		return runErr
	}
}

// debugResponse dumps every status response as a ::debug:: command, shown
// when step debug logging is enabled.
func debugResponse(runner *actions.Runner) func(sbomstatus.Progress) {
	return func(pr sbomstatus.Progress) {
		body, err := report.ResponseJSON(pr.Observation)
		if err != nil {
			return
		}
		runner.Debug(fmt.Sprintf("Status attempt %d/%d response: %s", pr.Attempt, pr.MaxAttempts, body))
	}
}

func writeSummary(runner *actions.Runner, logger *slog.Logger, doc report.Document) {
	var md strings.Builder
	if err := report.Markdown(&md, doc); err != nil {
		logger.Warn("failed to render summary", "error", err)
		return
	}
	if err := runner.AppendSummary(md.String()); err != nil {
		logger.Warn("failed to write summary", "error", err)
	}
}
