package layout

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jask/shopdash/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Widget{
		{ID: "a", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "b", Base: catalog.Dimension{W: 2, H: 1}},
		{ID: "c", Base: catalog.Dimension{W: 1, H: 2}},
		{ID: "d", Base: catalog.Dimension{W: 2, H: 2}},
		{ID: "e", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "f", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "g", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "h", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "x", Base: catalog.Dimension{W: 1, H: 1}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// newTestStore builds a store whose Layout is exactly visible; every other
// catalog widget starts hidden.
func newTestStore(t *testing.T, visible ...WidgetID) (*Store, *MemoryPersister) {
	t.Helper()
	cat := testCatalog(t)
	snap := Defaults(cat)
	snap.Layout = slices.Clone(visible)
	snap.Hidden = nil
	for _, id := range cat.IDs() {
		if !slices.Contains(visible, id) {
			snap.Hidden = append(snap.Hidden, id)
		}
	}
	mem := NewMemoryPersister()
	return NewStore(context.Background(), cat, mem, snap), mem
}

func ids(s ...string) []WidgetID {
	out := make([]WidgetID, len(s))
	for i, v := range s {
		out[i] = WidgetID(v)
	}
	return out
}

func assertOrder(t *testing.T, what string, got, want []WidgetID) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", what, diff)
	}
}

func assertSpans(t *testing.T, s *Store, id WidgetID, col, row Span) {
	t.Helper()
	gotCol, gotRow := s.Spans(id)
	if gotCol != col || gotRow != row {
		t.Fatalf("spans(%s) = %d,%d; want %d,%d", id, gotCol, gotRow, col, row)
	}
}

func TestMoveWidgetRightSwapsNeighbours(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b", "c", "d")...)
	s.MoveWidget("b", Right)
	assertOrder(t, "layout", s.Layout(), ids("a", "c", "b", "d"))
}

func TestMoveWidgetDirections(t *testing.T) {
	cases := []struct {
		id   WidgetID
		dir  Direction
		want []WidgetID
	}{
		{"a", Left, ids("a", "b", "c", "d", "e", "f")},
		{"f", Right, ids("a", "b", "c", "d", "e", "f")},
		{"b", Up, ids("a", "b", "c", "d", "e", "f")},
		{"c", Down, ids("a", "b", "c", "d", "e", "f")},
		{"a", Down, ids("e", "b", "c", "d", "a", "f")},
		{"f", Up, ids("a", "f", "c", "d", "e", "b")},
		{"e", Left, ids("a", "b", "c", "e", "d", "f")},
		{"x", Right, ids("a", "b", "c", "d", "e", "f")},
		{"a", Direction("sideways"), ids("a", "b", "c", "d", "e", "f")},
	}
	for _, tc := range cases {
		s, _ := newTestStore(t, ids("a", "b", "c", "d", "e", "f")...)
		s.MoveWidget(tc.id, tc.dir)
		assertOrder(t, string(tc.id)+" "+string(tc.dir), s.Layout(), tc.want)
	}
}

func TestHideThenShowAppendsToEnd(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b", "c", "d")...)
	hiddenBefore := len(s.Hidden())
	s.HideWidget("c")
	assertOrder(t, "layout after hide", s.Layout(), ids("a", "b", "d"))
	hidden := s.Hidden()
	if len(hidden) != hiddenBefore+1 || hidden[len(hidden)-1] != "c" {
		t.Fatalf("hidden = %v, want c appended", hidden)
	}
	s.ShowWidget("c")
	assertOrder(t, "layout after show", s.Layout(), ids("a", "b", "d", "c"))
	if slices.Contains(s.Hidden(), "c") {
		t.Fatalf("c still hidden: %v", s.Hidden())
	}
}

func TestHideShowScenarioWithEmptyHidden(t *testing.T) {
	cat, err := catalog.New([]catalog.Widget{
		{ID: "a", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "b", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "c", Base: catalog.Dimension{W: 1, H: 1}},
		{ID: "d", Base: catalog.Dimension{W: 1, H: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(context.Background(), cat, nil, Defaults(cat))
	s.HideWidget("c")
	assertOrder(t, "layout", s.Layout(), ids("a", "b", "d"))
	assertOrder(t, "hidden", s.Hidden(), ids("c"))
	s.ShowWidget("c")
	assertOrder(t, "layout", s.Layout(), ids("a", "b", "d", "c"))
	assertOrder(t, "hidden", s.Hidden(), []WidgetID{})
}

func TestHideWidgetIsIdempotent(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b")...)
	s.HideWidget("a")
	saves := mem.Saves()
	s.HideWidget("a")
	if n := countID(s.Hidden(), "a"); n != 1 {
		t.Fatalf("a appears %d times in hidden", n)
	}
	if mem.Saves() != saves {
		t.Fatalf("second hide persisted")
	}
}

func TestHideCollapsesExpansion(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b")...)
	s.ToggleExpand("b")
	assertSpans(t, s, "b", Span4, Span2)
	s.HideWidget("b")
	if s.IsExpanded("b") {
		t.Fatal("hidden widget still expanded")
	}
	assertSpans(t, s, "b", Span2, SpanNone)
	s.ShowWidget("b")
	assertSpans(t, s, "b", Span2, SpanNone)
}

func TestSetWidgetSizeWideOnly(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "x")...)
	s.SetWidgetSize("x", 2, 1)
	snap := s.Snapshot()
	if snap.ColSpans["x"] != Span2 {
		t.Fatalf("col span = %d, want Span2", snap.ColSpans["x"])
	}
	if _, ok := snap.RowSpans["x"]; ok {
		t.Fatalf("row span present: %v", snap.RowSpans["x"])
	}
	if snap.CustomSizes["x"] != (Size{W: 2, H: 1}) {
		t.Fatalf("custom size = %+v", snap.CustomSizes["x"])
	}
}

func TestSetWidgetSizeClampsInput(t *testing.T) {
	cases := []struct {
		w, h   int
		want   Size
		col    Span
		rowTok string
	}{
		{0, -3, Size{W: 1, H: 1}, Span1, ""},
		{3, 3, Size{W: 2, H: 2}, Span2, "row-span-2"},
		{9, 4, Size{W: 4, H: 4}, Span4, "row-span-4"},
	}
	for _, tc := range cases {
		s, _ := newTestStore(t, ids("a")...)
		s.SetWidgetSize("a", tc.w, tc.h)
		if got := s.Size("a"); got != tc.want {
			t.Errorf("SetWidgetSize(%d,%d) size = %+v, want %+v", tc.w, tc.h, got, tc.want)
		}
		col, row := s.Spans("a")
		if col != tc.col || row.RowToken() != tc.rowTok {
			t.Errorf("SetWidgetSize(%d,%d) spans = %d,%q", tc.w, tc.h, col, row.RowToken())
		}
	}
}

func TestSetWidgetSizeClearsExpansion(t *testing.T) {
	s, _ := newTestStore(t, ids("a")...)
	s.ToggleExpand("a")
	s.SetWidgetSize("a", 1, 2)
	if s.IsExpanded("a") {
		t.Fatal("resize should clear expansion")
	}
	assertSpans(t, s, "a", Span1, Span2)
	s.ToggleExpand("a")
	assertSpans(t, s, "a", Span2, Span4)
}

func TestResizeThenExpandClampsAtFour(t *testing.T) {
	s, _ := newTestStore(t, ids("x")...)
	s.SetWidgetSize("x", 2, 2)
	s.ToggleExpand("x")
	assertSpans(t, s, "x", Span4, Span4)
}

func TestToggleExpandRoundTrip(t *testing.T) {
	sizes := []*Size{nil, {W: 1, H: 1}, {W: 2, H: 1}, {W: 1, H: 2}, {W: 2, H: 2}, {W: 4, H: 1}, {W: 4, H: 4}}
	for _, id := range ids("a", "b", "c", "d") {
		for _, sz := range sizes {
			s, _ := newTestStore(t, ids("a", "b", "c", "d")...)
			if sz != nil {
				s.SetWidgetSize(id, sz.W, sz.H)
			}
			col, row := s.Spans(id)
			s.ToggleExpand(id)
			if !s.IsExpanded(id) {
				t.Fatalf("%s not expanded", id)
			}
			s.ToggleExpand(id)
			if s.IsExpanded(id) {
				t.Fatalf("%s still expanded", id)
			}
			assertSpans(t, s, id, col, row)
		}
	}
}

func TestToggleExpandDoublesBase(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b", "c", "d")...)
	for _, id := range ids("a", "b", "c", "d") {
		s.ToggleExpand(id)
	}
	assertSpans(t, s, "a", Span2, Span2)
	assertSpans(t, s, "b", Span4, Span2)
	assertSpans(t, s, "c", Span2, Span4)
	assertSpans(t, s, "d", Span4, Span4)
}

func TestToggleExpandIgnoresHiddenAndUnknown(t *testing.T) {
	s, mem := newTestStore(t, ids("a")...)
	s.ToggleExpand("b")
	s.ToggleExpand("nope")
	if s.IsExpanded("b") || mem.Saves() != 0 {
		t.Fatalf("expected no-ops, saves=%d", mem.Saves())
	}
}

func TestReorderWidget(t *testing.T) {
	base := ids("a", "b", "c", "d", "e")
	cases := []struct {
		src, dst WidgetID
		want     []WidgetID
	}{
		{"a", "d", ids("b", "c", "d", "a", "e")},
		{"e", "b", ids("a", "e", "b", "c", "d")},
		{"b", "c", ids("a", "c", "b", "d", "e")},
		{"c", "b", ids("a", "c", "b", "d", "e")},
		{"c", "c", base},
		{"c", "x", base},
		{"x", "c", base},
	}
	for _, tc := range cases {
		s, _ := newTestStore(t, base...)
		s.ReorderWidget(tc.src, tc.dst)
		assertOrder(t, string(tc.src)+"->"+string(tc.dst), s.Layout(), tc.want)
	}
}

func TestReorderPlacesSourceAtTargetIndex(t *testing.T) {
	base := ids("a", "b", "c", "d", "e", "f", "g", "h")
	for i := range base {
		for j := range base {
			s, _ := newTestStore(t, base...)
			src, dst := base[i], base[j]
			s.ReorderWidget(src, dst)
			got := s.Layout()
			if got[j] != src {
				t.Fatalf("reorder %s->%s: %v, want %s at %d", src, dst, got, src, j)
			}
			rest := slices.DeleteFunc(slices.Clone(got), func(id WidgetID) bool { return id == src })
			want := slices.DeleteFunc(slices.Clone(base), func(id WidgetID) bool { return id == src })
			assertOrder(t, "relative order", rest, want)
		}
	}
}

func TestShowAllAndHideAll(t *testing.T) {
	s, _ := newTestStore(t, ids("c", "a")...)
	s.ToggleExpand("a")
	s.HideAll()
	if len(s.Layout()) != 0 {
		t.Fatalf("layout = %v, want empty", s.Layout())
	}
	if len(s.Hidden()) != 9 {
		t.Fatalf("hidden = %v, want all 9", s.Hidden())
	}
	if s.IsExpanded("a") {
		t.Fatal("hide all should collapse")
	}
	s.ShowAll()
	if len(s.Hidden()) != 0 || len(s.Layout()) != 9 {
		t.Fatalf("layout=%v hidden=%v", s.Layout(), s.Hidden())
	}
	assertOrder(t, "leading ids", s.Layout()[:2], ids("b", "d"))
}

func TestResetLayoutRestoresDefaults(t *testing.T) {
	s, mem := newTestStore(t, ids("b", "a")...)
	s.ToggleEditMode()
	s.SetWidgetSize("a", 2, 2)
	s.ToggleExpand("b")
	s.ResetLayout()
	if diff := cmp.Diff(Defaults(s.Catalog()), s.Snapshot()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	stored, found, _ := mem.Load(context.Background())
	if !found {
		t.Fatal("reset not persisted")
	}
	if diff := cmp.Diff(Defaults(s.Catalog()), stored); diff != "" {
		t.Fatalf("persisted reset mismatch (-want +got):\n%s", diff)
	}
}

func TestEditModeToggleOnlyFlipsFlag(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b")...)
	before := s.Snapshot()
	s.ToggleEditMode()
	after := s.Snapshot()
	if !after.EditMode {
		t.Fatal("edit mode not on")
	}
	after.EditMode = false
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("toggle changed more than the flag:\n%s", diff)
	}
	s.SetEditMode(true)
	if mem.Saves() != 1 {
		t.Fatalf("saves = %d, want 1", mem.Saves())
	}
	s.SetEditMode(false)
	if s.EditMode() {
		t.Fatal("escape did not exit edit mode")
	}
}

func TestExitingEditModeKeepsChanges(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b", "c")...)
	s.ToggleEditMode()
	s.HideWidget("b")
	s.SetWidgetSize("a", 2, 1)
	s.SetEditMode(false)
	assertOrder(t, "layout", s.Layout(), ids("a", "c"))
	assertSpans(t, s, "a", Span2, SpanNone)
}

func TestEveryMutationPersists(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b", "c", "d")...)
	ops := []func(){
		s.ToggleEditMode,
		func() { s.SetWidgetSize("a", 2, 2) },
		func() { s.ToggleExpand("b") },
		func() { s.HideWidget("c") },
		func() { s.ShowWidget("c") },
		func() { s.MoveWidget("a", Right) },
		func() { s.ReorderWidget("d", "a") },
		s.HideAll,
		s.ShowAll,
		s.ResetLayout,
	}
	for i, op := range ops {
		op()
		if mem.Saves() != i+1 {
			t.Fatalf("after op %d saves = %d", i, mem.Saves())
		}
		stored, _, _ := mem.Load(context.Background())
		if diff := cmp.Diff(s.Snapshot(), stored); diff != "" {
			t.Fatalf("op %d stored snapshot differs:\n%s", i, diff)
		}
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b")...)
	before := s.Snapshot()
	s.SetWidgetSize("nope", 2, 2)
	s.ToggleExpand("nope")
	s.HideWidget("nope")
	s.ShowWidget("nope")
	s.MoveWidget("nope", Left)
	s.ReorderWidget("nope", "a")
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
	if mem.Saves() != 0 {
		t.Fatalf("saves = %d, want 0", mem.Saves())
	}
}

func TestPersistFailureKeepsSessionState(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b")...)
	boom := errors.New("disk full")
	mem.FailWith(boom)
	s.HideWidget("a")
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err = %v, want %v", s.Err(), boom)
	}
	assertOrder(t, "layout", s.Layout(), ids("b"))
	mem.FailWith(nil)
	s.ShowWidget("a")
	if s.Err() != nil {
		t.Fatalf("Err = %v after successful save", s.Err())
	}
}

func TestHoldBatchesWrites(t *testing.T) {
	s, mem := newTestStore(t, ids("a", "b", "c")...)
	s.Hold()
	s.ReorderWidget("a", "c")
	s.ReorderWidget("b", "a")
	if mem.Saves() != 0 {
		t.Fatalf("saves during hold = %d", mem.Saves())
	}
	s.Release()
	if mem.Saves() != 1 {
		t.Fatalf("saves after release = %d, want 1", mem.Saves())
	}
	s.Release()
	s.Hold()
	s.Release()
	if mem.Saves() != 1 {
		t.Fatalf("clean release wrote: %d", mem.Saves())
	}
}

func TestPartitionInvariantUnderRandomOperations(t *testing.T) {
	s, _ := newTestStore(t, ids("a", "b", "c", "d")...)
	all := s.Catalog().IDs()
	pool := append(slices.Clone(all), "ghost")
	dirs := []Direction{Left, Right, Up, Down}
	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 2000; step++ {
		id := pool[rng.Intn(len(pool))]
		switch rng.Intn(10) {
		case 0:
			s.HideWidget(id)
		case 1:
			s.ShowWidget(id)
		case 2:
			s.MoveWidget(id, dirs[rng.Intn(len(dirs))])
		case 3:
			s.ReorderWidget(id, pool[rng.Intn(len(pool))])
		case 4:
			s.ToggleExpand(id)
		case 5:
			s.SetWidgetSize(id, rng.Intn(6), rng.Intn(6))
		case 6:
			if rng.Intn(20) == 0 {
				s.HideAll()
			}
		case 7:
			if rng.Intn(20) == 0 {
				s.ShowAll()
			}
		case 8:
			s.ToggleEditMode()
		case 9:
			if rng.Intn(50) == 0 {
				s.ResetLayout()
			}
		}
		checkInvariants(t, s, step)
	}
}

func checkInvariants(t *testing.T, s *Store, step int) {
	t.Helper()
	snap := s.Snapshot()
	for _, id := range s.Catalog().IDs() {
		inLayout := countID(snap.Layout, id)
		inHidden := countID(snap.Hidden, id)
		if inLayout+inHidden != 1 {
			t.Fatalf("step %d: %s in layout %d times, hidden %d times", step, id, inLayout, inHidden)
		}
		want := Snapshot{ColSpans: map[WidgetID]Span{}, RowSpans: map[WidgetID]Span{}, CustomSizes: snap.CustomSizes, ExpandedWidgets: snap.ExpandedWidgets}
		want.applySpans(s.Catalog(), id)
		col, row := s.Spans(id)
		if col != want.ColSpans[id] || row != want.RowSpans[id] {
			t.Fatalf("step %d: spans(%s) = %d,%d; derived %d,%d", step, id, col, row, want.ColSpans[id], want.RowSpans[id])
		}
		if col != Span1 && col != Span2 && col != Span4 {
			t.Fatalf("step %d: col span %d out of domain", step, col)
		}
		if row != SpanNone && row != Span2 && row != Span4 {
			t.Fatalf("step %d: row span %d out of domain", step, row)
		}
	}
	for _, id := range snap.ExpandedWidgets {
		if !slices.Contains(snap.Layout, id) {
			t.Fatalf("step %d: hidden widget %s expanded", step, id)
		}
	}
}

func countID(ids []WidgetID, id WidgetID) int {
	n := 0
	for _, e := range ids {
		if e == id {
			n++
		}
	}
	return n
}
