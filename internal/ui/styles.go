package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Project paths, bars, highlights
// - Muted (gray): Secondary info, hints, record ids
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for project paths, bars, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, record ids
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// ConfigureTheme overrides the accent color from config. An empty string
// keeps the default.
func ConfigureTheme(accent string) {
	if accent == "" {
		return
	}
	c := lipgloss.Color(accent)
	Accent = Accent.Foreground(c)
	AccentBold = AccentBold.Foreground(c)
}
