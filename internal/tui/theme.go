// Package tui implements the optional live terminal view of a monitoring
// session.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the monitor TUI.
// Even with a single default theme, this keeps all colors in one place
// and makes future theme support trivial.
type Theme struct {
	// Event colors
	CISuccess lipgloss.Style
	CIFailure lipgloss.Style
	CIPending lipgloss.Style
	Review    lipgloss.Style
	Comment   lipgloss.Style

	// UI elements
	Border    lipgloss.Style
	Title     lipgloss.Style
	Header    lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		CISuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		CIFailure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		CIPending: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		Review:    lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		Comment:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61AFEF")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
	}
}
