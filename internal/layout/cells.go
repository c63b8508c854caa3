package layout

// Cell is what a grid renderer needs to draw one visible widget.
type Cell struct {
	ID        WidgetID
	Name      string
	ColSpan   Span
	RowSpan   Span
	Expanded  bool
	Editing   bool
	CustomSet bool
}

// ColClass is the column presentation token.
func (c Cell) ColClass() string { return c.ColSpan.ColToken() }

// RowClass is the row presentation token, empty for a single row.
func (c Cell) RowClass() string { return c.RowSpan.RowToken() }

// Cells lists the visible widgets in layout order. The order is advisory: a
// dense-packing renderer may place later cells into earlier gaps.
func (s *Store) Cells() []Cell {
	visible := s.Layout()
	out := make([]Cell, 0, len(visible))
	for _, id := range visible {
		col, row := s.Spans(id)
		_, custom := s.snap.CustomSizes[id]
		out = append(out, Cell{
			ID:        id,
			Name:      s.cat.Name(id),
			ColSpan:   col,
			RowSpan:   row,
			Expanded:  s.snap.isExpanded(id),
			Editing:   s.snap.EditMode,
			CustomSet: custom,
		})
	}
	return out
}
