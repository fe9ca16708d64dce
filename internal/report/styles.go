package report

import "github.com/charmbracelet/lipgloss"

// Palette shared by the terminal report and the progress bar.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorOrange = lipgloss.Color("#f97316")
	colorRed    = lipgloss.Color("#ef4444")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorGray   = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
)

// StyleHeading is the top-level report heading bar.
var StyleHeading = lipgloss.NewStyle().
	Bold(true).
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleSubheading introduces each table.
var StyleSubheading = lipgloss.NewStyle().
	Bold(true).
	Underline(true).
	MarginTop(1)

// Callout styles.
var (
	StyleSuccess = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	StyleInfo    = lipgloss.NewStyle().Foreground(colorBlue)
	StyleDim     = lipgloss.NewStyle().Foreground(colorGray)
)

// Table styles.
var (
	StyleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	StyleTableCell   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// severityStyle colors vulnerability severity headers.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "Critical":
		return StyleTableHeader.Foreground(colorRed)
	case "High":
		return StyleTableHeader.Foreground(colorOrange)
	case "Medium":
		return StyleTableHeader.Foreground(colorYellow)
	case "Low":
		return StyleTableHeader.Foreground(colorBlue)
	default:
		return StyleTableHeader
	}
}
