package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)

	// Marker styles
	pointStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	olderPointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	extractStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E879F9"))

	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
)
