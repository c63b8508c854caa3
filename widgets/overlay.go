package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Popup draws body in a bordered card centred over base, which is first
// fitted to width x height.
func Popup(base, body string, width, height int, border lipgloss.TerminalColor) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	if border != nil {
		style = style.BorderForeground(border)
	}
	card := strings.Split(style.Render(body), "\n")
	cardW := min(lipgloss.Width(strings.Join(card, "\n")), width)

	lines := strings.Split(base, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	top := max(0, (height-len(card))/2)
	left := max(0, (width-cardW)/2)
	for i, row := range card {
		y := top + i
		if y >= height {
			break
		}
		under := padRight(lines[y], width)
		lines[y] = padRight(ansi.Truncate(under, left, "")+padRight(row, cardW)+dropColumns(under, left+cardW), width)
	}
	return strings.Join(lines, "\n")
}
