package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
)

func item(key string, w, h int) GridItem {
	return GridItem{Key: key, ColSpan: w, RowSpan: h, Widget: Text(key)}
}

func TestPackDenseBackfill(t *testing.T) {
	items := []GridItem{
		item("a", 4, 1),
		item("b", 1, 1),
		item("c", 2, 2),
		item("d", 1, 1),
		item("e", 3, 1),
		item("f", 1, 1),
	}
	got, rows := Pack(items, 4)
	want := []Placement{
		{Col: 0, Row: 0, ColSpan: 4, RowSpan: 1},
		{Col: 0, Row: 1, ColSpan: 1, RowSpan: 1},
		{Col: 1, Row: 1, ColSpan: 2, RowSpan: 2},
		{Col: 3, Row: 1, ColSpan: 1, RowSpan: 1},
		{Col: 0, Row: 3, ColSpan: 3, RowSpan: 1},
		{Col: 0, Row: 2, ColSpan: 1, RowSpan: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("placements (-want +got):\n%s", diff)
	}
	if rows != 4 {
		t.Fatalf("rows = %d, want 4", rows)
	}
}

func TestPackClampsSpans(t *testing.T) {
	got, rows := Pack([]GridItem{item("wide", 9, 0)}, 4)
	if got[0].ColSpan != 4 || got[0].RowSpan != 1 {
		t.Fatalf("placement = %+v", got[0])
	}
	if rows != 1 {
		t.Fatalf("rows = %d", rows)
	}
	if _, rows := Pack(nil, 4); rows != 0 {
		t.Fatalf("empty rows = %d", rows)
	}
}

func TestGridFrames(t *testing.T) {
	g := Grid{Columns: 4, RowHeight: 3, Gap: 1, RowGap: 1, Items: []GridItem{
		item("a", 2, 1),
		item("b", 1, 2),
		item("c", 1, 1),
		item("d", 4, 1),
	}}
	// 43 - 3 gaps = 40 usable, 10 per column
	got := g.Frames(43)
	want := []Frame{
		{Key: "a", X: 0, Y: 0, W: 21, H: 3},
		{Key: "b", X: 22, Y: 0, W: 10, H: 7},
		{Key: "c", X: 33, Y: 0, W: 10, H: 3},
		{Key: "d", X: 0, Y: 8, W: 43, H: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frames (-want +got):\n%s", diff)
	}
	if h := g.Height(43); h != 11 {
		t.Fatalf("height = %d, want 11", h)
	}
}

func TestGridHitTest(t *testing.T) {
	g := Grid{Columns: 2, RowHeight: 3, Items: []GridItem{item("a", 1, 1), item("b", 1, 1), item("c", 2, 1)}}
	cases := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{9, 2, 0},
		{10, 0, 1},
		{5, 3, 2},
		{5, 6, -1},
	}
	for _, tc := range cases {
		if got := g.HitTest(20, tc.x, tc.y); got != tc.want {
			t.Fatalf("HitTest(%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
	g.Scroll = 3
	if got := g.HitTest(20, 5, 0); got != 2 {
		t.Fatalf("scrolled HitTest = %d, want 2", got)
	}
}

func TestGridRender(t *testing.T) {
	g := Grid{Columns: 2, RowHeight: 3, Gap: 2, Items: []GridItem{
		item("left", 1, 2),
		item("right", 1, 1),
		item("under", 1, 1),
	}}
	out := g.Render(12, 20)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6\n%s", len(lines), out)
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 12 {
			t.Fatalf("line %d width = %d, want 12: %q", i, w, line)
		}
	}
	if lines[0] != "left   right" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if lines[3] != "       under" {
		t.Fatalf("line 3 = %q", lines[3])
	}
}

func TestGridRenderScrollAndClip(t *testing.T) {
	g := Grid{Columns: 1, RowHeight: 3, Items: []GridItem{item("one", 1, 1), item("two", 1, 1)}}
	lines := strings.Split(g.Render(6, 2), "\n")
	if len(lines) != 2 || strings.TrimSpace(lines[0]) != "one" {
		t.Fatalf("clipped render = %q", lines)
	}
	g.Scroll = 3
	lines = strings.Split(g.Render(6, 10), "\n")
	if len(lines) != 3 || strings.TrimSpace(lines[0]) != "two" {
		t.Fatalf("scrolled render = %q", lines)
	}
	if (Grid{}).Render(10, 10) != "" {
		t.Fatal("empty grid should render nothing")
	}
}

func TestSplitWidths(t *testing.T) {
	if diff := cmp.Diff([]int{4, 3, 3}, splitWidths(10, 3, nil)); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]int{8, 2}, splitWidths(10, 2, []float64{4, 1})); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]int{5, 5}, splitWidths(10, 2, []float64{0, 0})); diff != "" {
		t.Fatal(diff)
	}
}

func TestTileAndPopupFitTheirBox(t *testing.T) {
	tile := Tile{Title: "Revenue", Badge: "2x1", Content: "line one\nline two\nline three"}.Render(20, 4)
	lines := strings.Split(tile, "\n")
	if len(lines) != 4 {
		t.Fatalf("tile lines = %d, want 4\n%s", len(lines), tile)
	}
	for _, l := range lines {
		if w := ansi.StringWidth(l); w != 20 {
			t.Fatalf("tile width = %d: %q", w, l)
		}
	}
	if !strings.Contains(ansi.Strip(tile), "Revenue") || !strings.Contains(ansi.Strip(tile), "2x1") {
		t.Fatalf("tile missing title or badge:\n%s", tile)
	}

	base := strings.Repeat(strings.Repeat(".", 30)+"\n", 9) + strings.Repeat(".", 30)
	out := Popup(base, "Reset?", 30, 10, nil)
	plines := strings.Split(out, "\n")
	if len(plines) != 10 {
		t.Fatalf("popup lines = %d", len(plines))
	}
	if !strings.Contains(ansi.Strip(out), "Reset?") {
		t.Fatalf("popup body missing:\n%s", out)
	}
	if !strings.HasPrefix(plines[0], "....") {
		t.Fatalf("base not preserved: %q", plines[0])
	}
}
