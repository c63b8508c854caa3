package layout

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jask/shopdash/internal/catalog"
)

// GridColumns is the width of the flattened index space MoveWidget works in.
const GridColumns = 4

// Direction is a MoveWidget direction.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

func (d Direction) offset() (int, bool) {
	switch d {
	case Left:
		return -1, true
	case Right:
		return 1, true
	case Up:
		return -GridColumns, true
	case Down:
		return GridColumns, true
	default:
		return 0, false
	}
}

// ParseDirection accepts left/right/up/down in any case.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	_, ok := d.offset()
	return d, ok
}

// Store owns the dashboard snapshot. Every mutation runs to completion and
// is written through the persister before returning. Operations on unknown
// ids or out-of-range moves do nothing; no operation returns an error.
//
// A Store is driven by a single event loop and is not safe for concurrent
// use.
type Store struct {
	ctx     context.Context
	cat     *catalog.Catalog
	persist Persister
	logger  *log.Logger

	snap      Snapshot
	migration MigrationResult

	hold    int
	dirty   bool
	lastErr error
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the persisted snapshot, runs it through the migrator and
// returns a ready store. A load failure is logged and treated as an empty
// store so the dashboard always comes up.
func Open(ctx context.Context, cat *catalog.Catalog, p Persister, m *Migrator, opts ...Option) *Store {
	s := newStore(ctx, cat, p, opts...)
	if m == nil {
		m = NewMigrator()
	}
	loaded, found, err := p.Load(ctx)
	if err != nil {
		s.logger.Error("load layout", "err", err)
		found = false
	}
	snap, res := m.Migrate(loaded, found, cat)
	s.migration = res
	s.adopt(snap, m.Current)
	switch {
	case !res.Found:
		s.logger.Info("layout initialised from defaults", "version", s.snap.Version)
	case s.snap.Version > m.Current:
		s.logger.Warn("layout written by a newer version; unknown widgets are kept but not shown", "version", s.snap.Version)
	case res.State == Stale:
		s.logger.Info("layout migrated", "from", res.FromVersion, "to", res.ToVersion, "policy", res.Policy)
		s.save()
	default:
		s.logger.Debug("layout loaded", "version", s.snap.Version, "visible", len(s.snap.Layout))
	}
	return s
}

// NewStore wraps an already-migrated snapshot.
func NewStore(ctx context.Context, cat *catalog.Catalog, p Persister, snap Snapshot, opts ...Option) *Store {
	s := newStore(ctx, cat, p, opts...)
	s.adopt(snap, CurrentVersion)
	s.migration = MigrationResult{Found: true, State: Current, FromVersion: snap.Version, ToVersion: snap.Version}
	return s
}

// adopt installs a migrated snapshot. One written by a newer build is kept
// as stored, so ids this build does not know survive later saves; the
// accessors and mutations below only ever see catalog widgets.
func (s *Store) adopt(snap Snapshot, current int) {
	if snap.Version > current {
		s.snap = snap.Clone()
		return
	}
	s.snap = Normalize(snap, s.cat)
}

func newStore(ctx context.Context, cat *catalog.Catalog, p Persister, opts ...Option) *Store {
	if p == nil {
		p = NewMemoryPersister()
	}
	s := &Store{ctx: ctx, cat: cat, persist: p, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *Store) Catalog() *catalog.Catalog { return s.cat }

func (s *Store) Migration() MigrationResult { return s.migration }

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot { return s.snap.Clone() }

// Layout is the visible widgets in order.
func (s *Store) Layout() []WidgetID { return s.inCatalog(s.snap.Layout, true) }

func (s *Store) Hidden() []WidgetID { return s.inCatalog(s.snap.Hidden, true) }

func (s *Store) EditMode() bool { return s.snap.EditMode }

func (s *Store) IsExpanded(id WidgetID) bool { return s.snap.isExpanded(id) }

func (s *Store) IsVisible(id WidgetID) bool {
	return s.cat.Has(id) && slices.Contains(s.snap.Layout, id)
}

// Spans returns the live column and row spans of id.
func (s *Store) Spans(id WidgetID) (col, row Span) {
	col, ok := s.snap.ColSpans[id]
	if !ok {
		col = Span1
	}
	return col, s.snap.RowSpans[id]
}

// Size returns the custom size of id, or its catalog base.
func (s *Store) Size(id WidgetID) Size { return s.snap.baseSize(s.cat, id) }

// Err is the most recent persistence failure, cleared by the next
// successful write.
func (s *Store) Err() error { return s.lastErr }

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func (s *Store) ToggleEditMode() {
	s.snap.EditMode = !s.snap.EditMode
	s.commit("toggle edit mode", "editing", s.snap.EditMode)
}

// SetEditMode is the Escape path: it only changes the flag, nothing done
// while editing is rolled back.
func (s *Store) SetEditMode(on bool) {
	if s.snap.EditMode == on {
		return
	}
	s.ToggleEditMode()
}

// SetWidgetSize overrides the footprint of id. Each axis is clamped onto
// {1,2,4}. The widget leaves the expanded state and the new size becomes the
// base for later expansion.
func (s *Store) SetWidgetSize(id WidgetID, w, h int) {
	if !s.known(id, "set size") {
		return
	}
	sz := Size{W: clampSize(w), H: clampSize(h)}
	s.snap.CustomSizes[id] = sz
	s.snap.ExpandedWidgets = slices.DeleteFunc(s.snap.ExpandedWidgets, func(e WidgetID) bool { return e == id })
	s.snap.setSpans(id, sz.W, sz.H)
	s.commit("set widget size", "id", id, "w", sz.W, "h", sz.H)
}

// ToggleExpand doubles the widget's base size (capped at MaxSpan) or restores
// it. Only visible widgets can be expanded.
func (s *Store) ToggleExpand(id WidgetID) {
	if !s.known(id, "toggle expand") {
		return
	}
	if !slices.Contains(s.snap.Layout, id) {
		s.logger.Debug("ignored toggle expand on hidden widget", "id", id)
		return
	}
	if s.snap.isExpanded(id) {
		s.snap.ExpandedWidgets = slices.DeleteFunc(s.snap.ExpandedWidgets, func(e WidgetID) bool { return e == id })
	} else {
		s.snap.ExpandedWidgets = append(s.snap.ExpandedWidgets, id)
	}
	s.snap.applySpans(s.cat, id)
	s.commit("toggle expand", "id", id, "expanded", s.snap.isExpanded(id))
}

// HideWidget moves id from Layout to the end of Hidden and collapses it.
// Hiding an already hidden widget does nothing.
func (s *Store) HideWidget(id WidgetID) {
	if !s.known(id, "hide") || slices.Contains(s.snap.Hidden, id) {
		return
	}
	s.snap.Layout = removeID(s.snap.Layout, id)
	s.snap.Hidden = append(s.snap.Hidden, id)
	s.collapse(id)
	s.commit("hide widget", "id", id)
}

// ShowWidget moves id from Hidden to the end of Layout. Its earlier position
// is not restored.
func (s *Store) ShowWidget(id WidgetID) {
	if !s.known(id, "show") || !slices.Contains(s.snap.Hidden, id) {
		return
	}
	s.snap.Hidden = removeID(s.snap.Hidden, id)
	s.snap.Layout = append(s.snap.Layout, id)
	s.commit("show widget", "id", id)
}

// MoveWidget swaps id with its neighbour in a GridColumns-wide index space.
// Moves that would leave the layout do nothing.
func (s *Store) MoveWidget(id WidgetID, dir Direction) {
	off, ok := dir.offset()
	if !ok {
		s.logger.Debug("ignored move with unknown direction", "direction", dir)
		return
	}
	visible := s.Layout()
	i := slices.Index(visible, id)
	if i < 0 {
		s.logger.Debug("ignored move of widget not in layout", "id", id)
		return
	}
	j := i + off
	if j < 0 || j >= len(visible) {
		return
	}
	a, b := slices.Index(s.snap.Layout, id), slices.Index(s.snap.Layout, visible[j])
	s.snap.Layout[a], s.snap.Layout[b] = s.snap.Layout[b], s.snap.Layout[a]
	s.commit("move widget", "id", id, "direction", dir)
}

// ReorderWidget removes src and reinserts it at dst's current index.
func (s *Store) ReorderWidget(src, dst WidgetID) {
	if !s.IsVisible(src) || !s.IsVisible(dst) {
		return
	}
	i := slices.Index(s.snap.Layout, src)
	j := slices.Index(s.snap.Layout, dst)
	if i < 0 || j < 0 || i == j {
		return
	}
	s.snap.Layout = slices.Delete(s.snap.Layout, i, i+1)
	s.snap.Layout = slices.Insert(s.snap.Layout, j, src)
	s.commit("reorder widget", "src", src, "dst", dst)
}

// ResetLayout replaces the whole snapshot with factory defaults. Widgets
// kept from a newer version's snapshot are dropped.
func (s *Store) ResetLayout() {
	s.snap = Defaults(s.cat)
	s.commit("reset layout")
}

// ShowAll appends every hidden (and any unplaced catalog) widget to Layout.
func (s *Store) ShowAll() {
	if len(s.Hidden()) == 0 && len(s.Layout()) == s.cat.Len() {
		return
	}
	s.snap.Layout = unionIDs(s.snap.Layout, s.Hidden(), s.cat.IDs())
	s.snap.Hidden = s.inCatalog(s.snap.Hidden, false)
	s.commit("show all")
}

// HideAll moves every visible widget to Hidden and collapses them.
func (s *Store) HideAll() {
	if len(s.Layout()) == 0 {
		return
	}
	s.snap.Hidden = unionIDs(s.snap.Hidden, s.Layout(), s.cat.IDs())
	s.snap.Layout = s.inCatalog(s.snap.Layout, false)
	for _, id := range slices.Clone(s.snap.ExpandedWidgets) {
		s.collapse(id)
	}
	s.commit("hide all")
}

// Replace swaps in a snapshot from outside (an import). It is migrated and
// normalized the same way a load is.
func (s *Store) Replace(snap Snapshot, m *Migrator) MigrationResult {
	if m == nil {
		m = NewMigrator()
	}
	out, res := m.Migrate(snap, true, s.cat)
	s.adopt(out, m.Current)
	s.commit("replace layout", "from", res.FromVersion, "policy", res.Policy)
	return res
}

// ---------------------------------------------------------------------------
// Write batching
// ---------------------------------------------------------------------------

// Hold defers persistence until the matching Release. Mutations still apply
// immediately.
func (s *Store) Hold() { s.hold++ }

// Release ends a Hold and writes once if anything changed meanwhile.
func (s *Store) Release() {
	if s.hold == 0 {
		return
	}
	s.hold--
	if s.hold == 0 && s.dirty {
		s.save()
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Store) known(id WidgetID, op string) bool {
	if s.cat.Has(id) {
		return true
	}
	s.logger.Debug("ignored "+op+" on unknown widget", "id", id)
	return false
}

func (s *Store) collapse(id WidgetID) {
	if !s.snap.isExpanded(id) {
		return
	}
	s.snap.ExpandedWidgets = slices.DeleteFunc(s.snap.ExpandedWidgets, func(e WidgetID) bool { return e == id })
	s.snap.applySpans(s.cat, id)
}

func (s *Store) commit(msg string, kv ...any) {
	s.logger.Debug(msg, kv...)
	if s.hold > 0 {
		s.dirty = true
		return
	}
	s.save()
}

func (s *Store) save() {
	s.dirty = false
	if err := s.persist.Save(s.ctx, s.snap.Clone()); err != nil {
		s.logger.Error("persist layout", "err", err)
		s.lastErr = err
		return
	}
	s.lastErr = nil
}

// inCatalog filters ids to those the catalog knows (want) or does not.
func (s *Store) inCatalog(ids []WidgetID, want bool) []WidgetID {
	out := make([]WidgetID, 0, len(ids))
	for _, id := range ids {
		if s.cat.Has(id) == want {
			out = append(out, id)
		}
	}
	return out
}

func removeID(ids []WidgetID, id WidgetID) []WidgetID {
	return slices.DeleteFunc(ids, func(e WidgetID) bool { return e == id })
}

// unionIDs concatenates the lists keeping the first occurrence of each id.
func unionIDs(lists ...[]WidgetID) []WidgetID {
	seen := map[WidgetID]bool{}
	var out []WidgetID
	for _, l := range lists {
		for _, id := range l {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	if out == nil {
		out = []WidgetID{}
	}
	return out
}
