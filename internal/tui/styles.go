package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorWarn     lipgloss.Color = "#f9e2af"
	colorError    lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerBarStyle = lipgloss.NewStyle().Background(colorMantle).Foreground(colorText)
	headerAppStyle = lipgloss.NewStyle().Foreground(colorAccent).Background(colorMantle).Bold(true)
	editBadgeStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorPeach).Bold(true).Padding(0, 1)
	viewBadgeStyle = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle).Padding(0, 1)

	statusBarStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0)
	footerStyle       = lipgloss.NewStyle().Background(colorMantle)

	tileTitleStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	tileBodyStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	badgeStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	modalTitle     = lipgloss.NewStyle().Bold(true).Underline(true)
)

// tileBorder picks the border colour for a tile.
func tileBorder(selected, editing, dragging bool) lipgloss.TerminalColor {
	switch {
	case dragging:
		return colorPeach
	case selected && editing:
		return colorWarn
	case selected:
		return colorAccent
	default:
		return colorBorder
	}
}
