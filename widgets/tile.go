package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tile is bordered chrome around a widget body: a title row, an optional
// badge on the right of the title, and the content below.
type Tile struct {
	Title      string
	Badge      string
	Content    string
	TitleStyle lipgloss.Style
	Border     lipgloss.TerminalColor
	Thick      bool
}

func (t Tile) Render(width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}
	border := lipgloss.RoundedBorder()
	if t.Thick {
		border = lipgloss.ThickBorder()
	}
	style := lipgloss.NewStyle().
		Border(border).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height)
	if t.Border != nil {
		style = style.BorderForeground(t.Border)
	}

	inner := width - 2
	head := t.TitleStyle.Render(t.Title)
	if t.Badge != "" {
		gap := inner - lipgloss.Width(head) - lipgloss.Width(t.Badge)
		head += strings.Repeat(" ", max(1, gap)) + t.Badge
	}
	body := []string{padRight(head, inner)}
	if t.Content != "" {
		for _, line := range strings.Split(t.Content, "\n") {
			body = append(body, padRight(line, inner))
		}
	}
	if len(body) > height-2 {
		body = body[:height-2]
	}
	return style.Render(strings.Join(body, "\n"))
}
