package widgets

import (
	"slices"
	"strings"
)

// GridItem is one tile in a Grid. Spans are in grid cells.
type GridItem struct {
	Key     string
	ColSpan int
	RowSpan int
	Widget  Widget
}

// Placement is the cell position Pack assigned to an item.
type Placement struct {
	Col, Row         int
	ColSpan, RowSpan int
}

// Pack places items on a grid of the given column count the way a CSS grid
// with dense auto-flow does: each item takes the first row-major position
// where its whole span is free, so later small items back-fill holes left
// by earlier wide ones. Column spans wider than the grid are clamped and
// spans below one count as one. rows is the number of grid rows used.
func Pack(items []GridItem, columns int) (out []Placement, rows int) {
	if columns <= 0 {
		columns = 1
	}
	var occupied [][]bool
	free := func(r, c, w, h int) bool {
		for y := r; y < r+h; y++ {
			if y >= len(occupied) {
				return true
			}
			for x := c; x < c+w; x++ {
				if occupied[y][x] {
					return false
				}
			}
		}
		return true
	}
	out = make([]Placement, len(items))
	for i, it := range items {
		w := min(max(it.ColSpan, 1), columns)
		h := max(it.RowSpan, 1)
		r, c := 0, 0
	search:
		for r = 0; ; r++ {
			for c = 0; c+w <= columns; c++ {
				if free(r, c, w, h) {
					break search
				}
			}
		}
		for len(occupied) < r+h {
			occupied = append(occupied, make([]bool, columns))
		}
		for y := r; y < r+h; y++ {
			for x := c; x < c+w; x++ {
				occupied[y][x] = true
			}
		}
		out[i] = Placement{Col: c, Row: r, ColSpan: w, RowSpan: h}
	}
	return out, len(occupied)
}

// Frame is an item's rectangle in screen cells, relative to the grid origin.
type Frame struct {
	Key        string
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside f.
func (f Frame) Contains(x, y int) bool {
	return x >= f.X && x < f.X+f.W && y >= f.Y && y < f.Y+f.H
}

// Grid lays its items out with Pack and draws them. RowHeight is the height
// of one grid row in lines; Gap and RowGap separate columns and rows.
// Scroll skips that many lines from the top when rendering.
type Grid struct {
	Columns   int
	RowHeight int
	Gap       int
	RowGap    int
	Scroll    int
	Items     []GridItem
}

func (g Grid) columns() int   { return max(g.Columns, 1) }
func (g Grid) rowHeight() int { return max(g.RowHeight, 3) }

// Frames returns one frame per item, in item order, for a grid drawn at the
// given width. Frames ignore Scroll.
func (g Grid) Frames(width int) []Frame {
	cols := g.columns()
	usable := max(cols, width-g.Gap*(cols-1))
	widths := splitWidths(usable, cols, nil)
	xs := make([]int, cols+1)
	for i, w := range widths {
		xs[i+1] = xs[i] + w + g.Gap
	}
	rh, step := g.rowHeight(), g.rowHeight()+g.RowGap

	places, _ := Pack(g.Items, cols)
	frames := make([]Frame, len(places))
	for i, p := range places {
		frames[i] = Frame{
			Key: g.Items[i].Key,
			X:   xs[p.Col],
			Y:   p.Row * step,
			W:   xs[p.Col+p.ColSpan] - xs[p.Col] - g.Gap,
			H:   p.RowSpan*rh + (p.RowSpan-1)*g.RowGap,
		}
	}
	return frames
}

// Height is the number of lines the unscrolled grid occupies.
func (g Grid) Height(width int) int {
	h := 0
	for _, f := range g.Frames(width) {
		h = max(h, f.Y+f.H)
	}
	return h
}

// HitTest returns the index of the item drawn at screen cell (x, y), taking
// Scroll into account, or -1.
func (g Grid) HitTest(width, x, y int) int {
	y += g.Scroll
	for i, f := range g.Frames(width) {
		if f.Contains(x, y) {
			return i
		}
	}
	return -1
}

func (g Grid) Render(width, height int) string {
	if width <= 0 || height <= 0 || len(g.Items) == 0 {
		return ""
	}
	frames := g.Frames(width)
	bodies := make([][]string, len(frames))
	for i, f := range frames {
		var text string
		if w := g.Items[i].Widget; w != nil {
			text = w.Render(f.W, f.H)
		}
		bodies[i] = strings.Split(text, "\n")
	}
	order := make([]int, len(frames))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return frames[a].X - frames[b].X })

	total := g.Height(width)
	lines := make([]string, 0, height)
	for y := g.Scroll; y < total && len(lines) < height; y++ {
		var b strings.Builder
		cursor := 0
		for _, i := range order {
			f := frames[i]
			if y < f.Y || y >= f.Y+f.H {
				continue
			}
			b.WriteString(strings.Repeat(" ", max(0, f.X-cursor)))
			var line string
			if row := y - f.Y; row < len(bodies[i]) {
				line = bodies[i][row]
			}
			b.WriteString(padRight(line, f.W))
			cursor = f.X + f.W
		}
		lines = append(lines, padRight(b.String(), width))
	}
	return strings.Join(lines, "\n")
}
