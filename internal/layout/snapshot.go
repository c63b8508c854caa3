package layout

import (
	"maps"
	"slices"

	"github.com/jask/shopdash/internal/catalog"
)

// CurrentVersion is the schema version this build writes. Bump it whenever
// the meaning of a persisted snapshot changes.
const CurrentVersion = 3

type (
	WidgetID = catalog.WidgetID
	Size     = catalog.Dimension
)

// Snapshot is the complete persisted dashboard state.
type Snapshot struct {
	Version         int
	Layout          []WidgetID
	Hidden          []WidgetID
	ColSpans        map[WidgetID]Span
	RowSpans        map[WidgetID]Span
	CustomSizes     map[WidgetID]Size
	ExpandedWidgets []WidgetID
	EditMode        bool
}

// Defaults is the factory snapshot: every catalog widget visible in
// declaration order at its base size, nothing customised, edit mode off.
func Defaults(cat *catalog.Catalog) Snapshot {
	s := Snapshot{
		Version:         CurrentVersion,
		Layout:          cat.IDs(),
		Hidden:          []WidgetID{},
		ColSpans:        make(map[WidgetID]Span, cat.Len()),
		RowSpans:        make(map[WidgetID]Span),
		CustomSizes:     make(map[WidgetID]Size),
		ExpandedWidgets: []WidgetID{},
	}
	for _, w := range cat.Widgets() {
		s.setSpans(w.ID, w.Base.W, w.Base.H)
	}
	return s
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Layout = cloneIDs(s.Layout)
	out.Hidden = cloneIDs(s.Hidden)
	out.ExpandedWidgets = cloneIDs(s.ExpandedWidgets)
	out.ColSpans = cloneMap(s.ColSpans)
	out.RowSpans = cloneMap(s.RowSpans)
	out.CustomSizes = cloneMap(s.CustomSizes)
	return out
}

func cloneIDs(ids []WidgetID) []WidgetID {
	if ids == nil {
		return []WidgetID{}
	}
	return slices.Clone(ids)
}

func cloneMap[V any](m map[WidgetID]V) map[WidgetID]V {
	if m == nil {
		return make(map[WidgetID]V)
	}
	return maps.Clone(m)
}

func (s *Snapshot) setSpans(id WidgetID, w, h int) {
	s.ColSpans[id] = ColSpan(w)
	if r := RowSpan(h); r != SpanNone {
		s.RowSpans[id] = r
	} else {
		delete(s.RowSpans, id)
	}
}

func (s *Snapshot) isExpanded(id WidgetID) bool {
	return slices.Contains(s.ExpandedWidgets, id)
}

// baseSize is the size expansion doubles: the custom size when set, else the
// catalog base, else 1x1.
func (s *Snapshot) baseSize(cat *catalog.Catalog, id WidgetID) Size {
	if sz, ok := s.CustomSizes[id]; ok {
		return sz
	}
	if b, ok := cat.Base(id); ok {
		return b
	}
	return Size{W: 1, H: 1}
}

// applySpans recomputes the live spans of id from its base size and
// expansion state.
func (s *Snapshot) applySpans(cat *catalog.Catalog, id WidgetID) {
	b := s.baseSize(cat, id)
	if s.isExpanded(id) {
		s.setSpans(id, min(b.W*2, MaxSpan), min(b.H*2, MaxSpan))
		return
	}
	s.setSpans(id, b.W, b.H)
}

// Normalize reconciles s with cat: unknown and duplicate ids are dropped,
// an id present in both Layout and Hidden stays visible, catalog widgets
// missing from both are appended to Layout, custom sizes are clamped,
// expansion is kept only for visible widgets and every span is recomputed.
// The version is left untouched.
func Normalize(s Snapshot, cat *catalog.Catalog) Snapshot {
	out := Snapshot{
		Version:     s.Version,
		EditMode:    s.EditMode,
		ColSpans:    make(map[WidgetID]Span, cat.Len()),
		RowSpans:    make(map[WidgetID]Span),
		CustomSizes: make(map[WidgetID]Size),
	}
	seen := make(map[WidgetID]bool, cat.Len())
	keep := func(ids []WidgetID) []WidgetID {
		kept := make([]WidgetID, 0, len(ids))
		for _, id := range ids {
			if cat.Has(id) && !seen[id] {
				seen[id] = true
				kept = append(kept, id)
			}
		}
		return kept
	}
	out.Layout = keep(s.Layout)
	out.Hidden = keep(s.Hidden)
	for _, id := range cat.IDs() {
		if !seen[id] {
			seen[id] = true
			out.Layout = append(out.Layout, id)
		}
	}
	for id, sz := range s.CustomSizes {
		if cat.Has(id) {
			out.CustomSizes[id] = Size{W: clampSize(sz.W), H: clampSize(sz.H)}
		}
	}
	out.ExpandedWidgets = []WidgetID{}
	for _, id := range s.ExpandedWidgets {
		if slices.Contains(out.Layout, id) && !slices.Contains(out.ExpandedWidgets, id) {
			out.ExpandedWidgets = append(out.ExpandedWidgets, id)
		}
	}
	for _, id := range cat.IDs() {
		out.applySpans(cat, id)
	}
	return out
}
