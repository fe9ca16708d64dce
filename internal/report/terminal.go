package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jpalmerr/sbomstatus"
)

// Terminal writes doc as a styled plain-text report.
func Terminal(w io.Writer, doc Document) error {
	var b strings.Builder

	b.WriteString(StyleHeading.Render(titleResults))
	b.WriteString("\n\n")
	b.WriteString(calloutStyle(doc.Kind).Render(doc.Callout))
	b.WriteString("\n")

	for _, warning := range doc.Warnings {
		b.WriteString(StyleWarning.Render("⚠️ " + warning))
		b.WriteString("\n")
	}

	for _, t := range doc.Tables {
		b.WriteString(StyleSubheading.Render(t.Heading))
		b.WriteString("\n")
		b.WriteString(renderTable(t))
		b.WriteString("\n")
	}

	if doc.PollingConfig != "" {
		b.WriteString(StyleSubheading.Render(headingPolling))
		b.WriteString("\n")
		b.WriteString(doc.PollingConfig)
		b.WriteString("\n")
	}
	if doc.LastStatus != "" {
		b.WriteString(StyleDim.Render(doc.LastStatus))
		b.WriteString("\n")
	}

	if doc.Suggestion != "" {
		b.WriteString("\n")
		b.WriteString(StyleInfo.Render(doc.Suggestion))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

func renderTable(t Table) string {
	isVulns := t.Heading == headingVulns
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if isVulns && col < len(t.Headers) {
					return severityStyle(t.Headers[col])
				}
				return StyleTableHeader
			}
			return StyleTableCell
		}).
		Headers(t.Headers...)
	for _, row := range t.Rows {
		tbl = tbl.Row(row...)
	}
	return tbl.String()
}

func calloutStyle(kind sbomstatus.OutcomeKind) lipgloss.Style {
	switch kind {
	case sbomstatus.OutcomeCompleted:
		return StyleSuccess
	case sbomstatus.OutcomeTimedOut:
		return StyleWarning
	default:
		return StyleError
	}
}
