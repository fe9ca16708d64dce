package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpalmerr/sbomstatus"
)

// Markdown writes doc as GitHub-flavored markdown for a step summary.
func Markdown(w io.Writer, doc Document) error {
	var b strings.Builder

	switch doc.Kind {
	case sbomstatus.OutcomeCompleted:
		fmt.Fprintf(&b, "## %s\n\n", titleResults)
		fmt.Fprintf(&b, "> %s\n\n", doc.Callout)
	default:
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "> %s\n\n", doc.Callout)
	}

	for _, warning := range doc.Warnings {
		fmt.Fprintf(&b, "> ⚠️ %s\n\n", warning)
	}

	for _, t := range doc.Tables {
		fmt.Fprintf(&b, "#### %s\n\n", t.Heading)
		writeMarkdownTable(&b, t)
		b.WriteString("\n")
	}

	if doc.PollingConfig != "" {
		fmt.Fprintf(&b, "#### %s\n\n", headingPolling)
		fmt.Fprintf(&b, "```json\n%s\n```\n\n", doc.PollingConfig)
	}
	if doc.LastStatus != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.LastStatus)
	}

	if doc.Raw != "" {
		fmt.Fprintf(&b, "<details><summary>%s</summary>\n\n```json\n%s\n```\n\n</details>\n\n", headingRaw, doc.Raw)
	}

	if doc.Suggestion != "" {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "> %s\n", doc.Suggestion)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownTable(b *strings.Builder, t Table) {
	b.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}
