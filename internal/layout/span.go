package layout

import "strings"

// Span is the number of grid cells a widget occupies along one axis.
// SpanNone marks a row span that needs no override (height 1).
type Span int

const (
	SpanNone Span = 0
	Span1    Span = 1
	Span2    Span = 2
	Span4    Span = 4
)

// MaxSpan is the expansion ceiling on both axes.
const MaxSpan = 4

// ColSpan classifies a width. Widths of 4 or more map to Span4, 2..3 to
// Span2, anything else to Span1.
func ColSpan(w int) Span {
	switch {
	case w >= 4:
		return Span4
	case w >= 2:
		return Span2
	default:
		return Span1
	}
}

// RowSpan classifies a height; a height of 1 or less needs no override.
func RowSpan(h int) Span {
	switch {
	case h >= 4:
		return Span4
	case h >= 2:
		return Span2
	default:
		return SpanNone
	}
}

// Cells is the cell count the span covers; SpanNone covers one row.
func (s Span) Cells() int {
	if s == SpanNone {
		return 1
	}
	return int(s)
}

// ColToken is the presentation token for a column span.
func (s Span) ColToken() string {
	switch s {
	case Span2:
		return "col-span-2"
	case Span4:
		return "col-span-4"
	default:
		return "col-span-1"
	}
}

// RowToken is the presentation token for a row span; empty for SpanNone.
func (s Span) RowToken() string {
	switch s {
	case Span2:
		return "row-span-2"
	case Span4:
		return "row-span-4"
	default:
		return ""
	}
}

// ParseColToken maps a column token back to its span.
func ParseColToken(tok string) (Span, bool) {
	switch strings.TrimSpace(tok) {
	case "col-span-1":
		return Span1, true
	case "col-span-2":
		return Span2, true
	case "col-span-4":
		return Span4, true
	}
	return SpanNone, false
}

// ParseRowToken maps a row token back to its span. The empty token is
// SpanNone.
func ParseRowToken(tok string) (Span, bool) {
	switch strings.TrimSpace(tok) {
	case "":
		return SpanNone, true
	case "row-span-2":
		return Span2, true
	case "row-span-4":
		return Span4, true
	}
	return SpanNone, false
}

// clampSize snaps n onto the largest allowed span not above it.
func clampSize(n int) int {
	switch {
	case n >= 4:
		return 4
	case n >= 2:
		return 2
	default:
		return 1
	}
}
