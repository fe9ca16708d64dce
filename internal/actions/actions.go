// Package actions implements the small part of the GitHub Actions runner
// protocol the CLI needs: reading inputs, setting outputs, appending to the
// step summary and emitting workflow commands.
package actions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Environment variables set by the runner.
const (
	envOutput      = "GITHUB_OUTPUT"
	envStepSummary = "GITHUB_STEP_SUMMARY"
	envActions     = "GITHUB_ACTIONS"
)

// Runner talks to the Actions runner through env-provided files and
// workflow commands written to Stdout.
//
// The zero value is not usable; construct with [FromEnv] or fill every field.
type Runner struct {
	// Stdout receives workflow commands.
	Stdout io.Writer

	// OutputPath is the GITHUB_OUTPUT file. Empty disables outputs.
	OutputPath string

	// SummaryPath is the GITHUB_STEP_SUMMARY file. Empty disables the summary.
	SummaryPath string

	// Lookup reads environment variables.
	Lookup func(string) (string, bool)
}

// FromEnv returns a [Runner] wired to the process environment.
func FromEnv() *Runner {
	return &Runner{
		Stdout:      os.Stdout,
		OutputPath:  os.Getenv(envOutput),
		SummaryPath: os.Getenv(envStepSummary),
		Lookup:      os.LookupEnv,
	}
}

// Detected reports whether the process runs inside GitHub Actions.
func (r *Runner) Detected() bool {
	v, _ := r.Lookup(envActions)
	return v == "true"
}

// InputName returns the environment variable that carries input name.
func InputName(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Input returns the trimmed value of action input name, or "" if unset.
func (r *Runner) Input(name string) string {
	v, _ := r.Lookup(InputName(name))
	return strings.TrimSpace(v)
}

// SetOutput records an output for later steps.
//
// Values are written in the heredoc form so they may span lines; the
// delimiter is random and checked against the name and value.
func (r *Runner) SetOutput(name, value string) error {
	if r.OutputPath == "" {
		return nil
	}
	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return errors.New("output name or value contains the delimiter")
	}
	entry := fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	return appendFile(r.OutputPath, entry)
}

// AppendSummary appends markdown to the job summary.
func (r *Runner) AppendSummary(markdown string) error {
	if r.SummaryPath == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(r.SummaryPath, markdown)
}

// Warning emits a ::warning:: workflow command.
func (r *Runner) Warning(msg string) {
	r.command("warning", msg)
}

// Error emits an ::error:: workflow command.
func (r *Runner) Error(msg string) {
	r.command("error", msg)
}

// Debug emits a ::debug:: workflow command.
func (r *Runner) Debug(msg string) {
	r.command("debug", msg)
}

func (r *Runner) command(name, msg string) {
	_, _ = fmt.Fprintf(r.Stdout, "::%s::%s\n", name, escapeData(msg))
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

func appendFile(path, data string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
