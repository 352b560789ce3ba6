// Package ui holds the terminal presentation layer: the dashboard
// model, severity/status styling, and shared formatting helpers.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

// Lipgloss styles used by the dashboard views.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	TabStyle      = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	ActiveTab     = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("15")).Underline(true)
	DimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	SelectedStyle = lipgloss.NewStyle().Reverse(true)
)

var severityStyles = map[api.Severity]lipgloss.Style{
	api.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	api.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	api.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	api.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	api.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// SeverityStyle returns the lipgloss style for a severity, defaulting
// to the dim style for unknown values.
func SeverityStyle(s api.Severity) lipgloss.Style {
	if style, ok := severityStyles[s]; ok {
		return style
	}
	return DimStyle
}

var statusStyles = map[api.RunStatus]lipgloss.Style{
	api.StatusQueued:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	api.StatusRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	api.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	api.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

// StatusStyle returns the lipgloss style for a run status.
func StatusStyle(s api.RunStatus) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return DimStyle
}

// SeveritySprint colors a severity label for plain CLI output.
func SeveritySprint(s api.Severity) string {
	switch s {
	case api.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(string(s))
	case api.SeverityHigh:
		return color.New(color.FgRed).Sprint(string(s))
	case api.SeverityMedium:
		return color.New(color.FgYellow).Sprint(string(s))
	case api.SeverityLow:
		return color.New(color.FgBlue).Sprint(string(s))
	case api.SeverityInfo:
		return color.New(color.FgHiBlack).Sprint(string(s))
	default:
		return string(s)
	}
}

// StatusSprint colors a run status for plain CLI output.
func StatusSprint(s api.RunStatus) string {
	switch s {
	case api.StatusRunning:
		return color.New(color.FgCyan).Sprint(string(s))
	case api.StatusCompleted:
		return color.New(color.FgGreen).Sprint(string(s))
	case api.StatusFailed:
		return color.New(color.FgRed).Sprint(string(s))
	case api.StatusQueued:
		return color.New(color.FgHiBlack).Sprint(string(s))
	default:
		return string(s)
	}
}
