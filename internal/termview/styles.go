package termview

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles of the terminal view.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Report  lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f77b4")).
			Bold(true).
			MarginBottom(1),

		Section: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0b400")).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d62728")).
			Bold(true),

		Header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Padding(0, 1),

		Report: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#888888")),
	}
}
