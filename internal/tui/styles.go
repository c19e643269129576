package tui

import "github.com/charmbracelet/lipgloss"

// styles
var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorRed    = lipgloss.Color("#f38ba8")
	colorBar    = lipgloss.Color("#313244")

	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	activeDotStyle = lipgloss.NewStyle().Foreground(colorAccent)
	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Background(colorBar)
	statusErrStyle = lipgloss.NewStyle().Background(colorBar).Foreground(colorRed)
)
