// Package report renders the outcome of a status poll for people.
//
// Two renderings are provided: [Terminal], a lipgloss-styled report for
// interactive output, and [Markdown], the GitHub step summary. Both are
// built from the same [Document] so they always show the same data.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jpalmerr/sbomstatus"
)

// Text shared by both renderings.
const (
	titleResults      = "SBOM Processing Results"
	msgSuccess        = "✅ Successfully processed SBOM..."
	msgTimeout        = "⚠️ The maximum status poll attempts has been reached. Please consider increasing the maximum number of poll attempts (maxStatusPollAttempts) or time between poll attempts (statusAttemptInterval) before re-running."
	msgSuggestion     = "ℹ️ Assert the fetchVulnerabilityInfo or fetchPackageInfo action inputs to retrieve vulnerability or package intelligence data."
	headingComponents = "Component Information"
	headingVulns      = "Vulnerability Information"
	headingPackages   = "Package Information"
	headingPolling    = "Current Status Polling Configuration"
	headingRaw        = "Raw Response"
	missingValue      = "-"
)

// Reporter renders an outcome somewhere.
type Reporter interface {
	Report(out sbomstatus.Outcome, settings sbomstatus.Settings) error
}

// Table is a single header row plus data rows.
type Table struct {
	Heading string
	Headers []string
	Rows    [][]string
}

// Document is the rendering-independent content of a report.
type Document struct {
	Kind     sbomstatus.OutcomeKind
	Callout  string
	Tables   []Table
	Warnings []string

	// Suggestion is set when no enrichment data was requested.
	Suggestion string

	// PollingConfig is the JSON polling configuration, set on timeout.
	PollingConfig string

	// LastStatus describes the last observation, set on timeout.
	LastStatus string

	// Raw is the indented JSON response of the final observation.
	Raw string
}

// Build assembles the [Document] for an outcome.
func Build(out sbomstatus.Outcome, settings sbomstatus.Settings) Document {
	doc := Document{
		Kind:     out.Kind,
		Warnings: out.Warnings,
	}

	switch out.Kind {
	case sbomstatus.OutcomeCompleted:
		doc.Callout = msgSuccess
		doc.Tables = summaryTables(out.Final, settings)
		if !settings.WantsAdditionalInfo() {
			doc.Suggestion = msgSuggestion
		}
	case sbomstatus.OutcomeTimedOut:
		doc.Callout = msgTimeout
		doc.PollingConfig = pollingConfigJSON(settings)
		if out.Final != nil {
			doc.LastStatus = fmt.Sprintf("Last observed upload status: %s (additional info: %s) after %d attempts",
				valueOr(string(out.Final.UploadStatus)), valueOr(string(out.Final.AdditionalInfoStatus)), out.Attempts())
		}
	default:
		doc.Callout = "❌ Status polling failed"
		if out.Err != nil {
			doc.Callout += ": " + out.Err.Error()
		}
	}

	if out.Final != nil {
		doc.Raw = RawResponse(*out.Final)
	}
	return doc
}

// ResponseJSON serializes an observation in the endpoint's response shape,
// {"result": {...}}.
func ResponseJSON(obs sbomstatus.Observation) ([]byte, error) {
	return json.Marshal(struct {
		Result sbomstatus.Observation `json:"result"`
	}{obs})
}

// RawResponse is [ResponseJSON] indented for display.
func RawResponse(obs sbomstatus.Observation) string {
	b, err := json.MarshalIndent(struct {
		Result sbomstatus.Observation `json:"result"`
	}{obs}, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func summaryTables(final *sbomstatus.Observation, settings sbomstatus.Settings) []Table {
	var summary sbomstatus.UploadSummary
	if final != nil && final.UploadSummary != nil {
		summary = *final.UploadSummary
	}

	components := []string{missingValue, missingValue, missingValue}
	if c := summary.Components; c != nil {
		components = counts(c.Added, c.Removed, c.Total)
	}
	tables := []Table{{
		Heading: headingComponents,
		Headers: []string{"Added", "Removed", "Total"},
		Rows:    [][]string{components},
	}}

	if settings.FetchVulnerabilityInfo {
		row := []string{missingValue, missingValue, missingValue, missingValue, missingValue}
		if v := summary.VulnerabilityInfo; v != nil {
			row = counts(v.Critical, v.High, v.Medium, v.Low, v.None)
		}
		tables = append(tables, Table{
			Heading: headingVulns,
			Headers: []string{"Critical", "High", "Medium", "Low", "None"},
			Rows:    [][]string{row},
		})
	}

	if settings.FetchPackageInfo {
		row := []string{missingValue, missingValue}
		if p := summary.PackageInfo; p != nil {
			row = counts(p.Stale, p.Abandoned)
		}
		tables = append(tables, Table{
			Heading: headingPackages,
			Headers: []string{"Stale", "Abandoned"},
			Rows:    [][]string{row},
		})
	}
	return tables
}

func pollingConfigJSON(settings sbomstatus.Settings) string {
	b, err := json.Marshal(struct {
		MaxStatusPollAttempts int   `json:"maxStatusPollAttempts"`
		StatusAttemptInterval int64 `json:"statusAttemptInterval"`
	}{settings.MaxAttempts, settings.IntervalMillis()})
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func counts(values ...int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func valueOr(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}

// WriterReporter renders with fn into W.
type WriterReporter struct {
	W      io.Writer
	Render func(w io.Writer, doc Document) error
}

// Report implements [Reporter].
func (r WriterReporter) Report(out sbomstatus.Outcome, settings sbomstatus.Settings) error {
	return r.Render(r.W, Build(out, settings))
}
