package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	helpStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	okStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	focusStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)

	selectedHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).Underline(true)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorOverlay1)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(colorText).Background(colorSurface1).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 2).
			Width(22)
	activeCardStyle = cardStyle.BorderForeground(colorFocus)
	cardLabelStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarning).
			Padding(0, 1)
)

// cardColors tints the value line of each stat card.
var cardColors = []lipgloss.Color{colorInfo, colorRed, colorPeach, colorYellow}
