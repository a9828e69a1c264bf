package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary  = lipgloss.Color("#8B5CF6") // Vivid Purple
	Critical = lipgloss.Color("#F43F5E") // Rose
	High     = lipgloss.Color("#F97316") // Orange
	Medium   = lipgloss.Color("#EAB308") // Amber
	Low      = lipgloss.Color("#14B8A6") // Teal
	Success  = lipgloss.Color("#22C55E") // Green
	Text     = lipgloss.Color("#F8FAFC") // White
	TextDim  = lipgloss.Color("#94A3B8") // Slate
	Border   = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Pass = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)
)

// Card frames a summary block.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 2)

// Severity returns the badge style for an audit severity label.
func Severity(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Width(9)
	switch label {
	case "CRITICAL":
		return base.Foreground(Critical)
	case "HIGH":
		return base.Foreground(High)
	case "MEDIUM":
		return base.Foreground(Medium)
	case "LOW":
		return base.Foreground(Low)
	}
	return base.Foreground(TextDim)
}
