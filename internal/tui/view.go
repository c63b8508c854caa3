package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/shopdash/internal/layout"
	"github.com/jask/shopdash/widgets"
)

// grid builds the widget grid for the current layout.
func (a *App) grid() widgets.Grid {
	cells := a.store.Cells()
	src, dragging := a.drag.Source()
	items := make([]widgets.GridItem, 0, len(cells))
	for i, c := range cells {
		items = append(items, widgets.GridItem{
			Key:     string(c.ID),
			ColSpan: int(c.ColSpan),
			RowSpan: max(int(c.RowSpan), 1),
			Widget:  a.tile(c, i == a.sel, dragging && src == c.ID),
		})
	}
	return widgets.Grid{
		Columns:   layout.GridColumns,
		RowHeight: gridRow,
		Gap:       gridGap,
		Scroll:    a.scroll,
		Items:     items,
	}
}

func (a *App) tile(c layout.Cell, selected, dragging bool) widgets.Tile {
	w, _ := a.store.Catalog().Lookup(c.ID)
	body := []string{tileBodyStyle.Render(w.Description)}
	if c.Editing {
		sz := a.store.Size(c.ID)
		classes := c.ColClass()
		if rc := c.RowClass(); rc != "" {
			classes += " " + rc
		}
		body = append(body, tileBodyStyle.Render(fmt.Sprintf("%dx%d  %s", sz.W, sz.H, classes)))
	}
	badge := ""
	switch {
	case c.Expanded:
		badge = badgeStyle.Render("expanded")
	case c.CustomSet && c.Editing:
		badge = badgeStyle.Render("custom")
	}
	return widgets.Tile{
		Title:      c.Name,
		Badge:      badge,
		Content:    strings.Join(body, "\n"),
		TitleStyle: tileTitleStyle,
		Border:     tileBorder(selected, c.Editing, dragging),
		Thick:      selected && c.Editing,
	}
}

func (a *App) View() string {
	width, height := a.viewWidth(), a.height
	if height <= 0 {
		height = fallbackH
	}
	header := a.renderHeader(width)
	status := a.renderStatus(width)
	footer := a.renderFooter(width)

	bodyHeight := a.gridHeight()
	body := a.grid().Render(width, bodyHeight)
	if len(a.store.Layout()) == 0 {
		body = tileBodyStyle.Render(fmt.Sprintf("All widgets are hidden. Press %s then %s to show them.",
			a.keys.KeyFor(actionToggleEdit), a.keys.KeyFor(actionShowAll)))
	}
	switch a.modal {
	case modalConfirmReset:
		body = widgets.Popup(body, modalTitle.Render("Reset layout?")+
			"\nOrder, sizes and visibility return to defaults.\n[y] Yes  [n] No", width, bodyHeight, colorError)
	case modalCommand:
		body = widgets.Popup(body, a.input.View(), width, bodyHeight, colorAccent)
	}
	body = fitHeight(body, bodyHeight)
	view := strings.Join([]string{header, body, status, footer}, "\n")
	return appStyle.Render(fitHeight(view, height))
}

func (a *App) renderHeader(width int) string {
	left := headerAppStyle.Render("shopdash")
	mode := viewBadgeStyle.Render("VIEW")
	if a.store.EditMode() {
		mode = editBadgeStyle.Render("EDIT")
	}
	counts := viewBadgeStyle.Render(fmt.Sprintf("%d shown  %d hidden", len(a.store.Layout()), len(a.store.Hidden())))
	right := counts + mode
	gap := max(1, width-ansi.StringWidth(left)-ansi.StringWidth(right))
	return renderBar(headerBarStyle, width, left+strings.Repeat(" ", gap)+right)
}

func (a *App) renderStatus(width int) string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrBarStyle, width, msg)
	}
	return renderBar(statusBarStyle, width, msg)
}

func (a *App) renderFooter(width int) string {
	scope := a.scope()
	switch a.modal {
	case modalConfirmReset:
		scope = scopeConfirm
	case modalCommand:
		scope = scopeCommand
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)
	parts := make([]string, 0, 16)
	for _, b := range a.keys.BindingsForScope(scope) {
		if len(b.Keys) == 0 {
			continue
		}
		h := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description)).Help()
		parts = append(parts, keyStyle.Render(h.Key)+descStyle.Render(" "+h.Desc))
	}
	return renderBar(footerStyle, width, strings.Join(parts, descStyle.Render("  ")))
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := ansi.Truncate(strings.ReplaceAll(text, "\n", " "), width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
