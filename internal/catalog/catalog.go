// Package catalog holds the static table of dashboard widgets: their ids,
// display names and the grid footprint each one declares before any user
// customisation.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// WidgetID is the stable identifier of a dashboard widget.
type WidgetID string

// Dimension is a widget footprint in grid cells.
type Dimension struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Widget is one catalog entry. Description is the placeholder body the host
// shows inside the tile; the layout engine never reads it.
type Widget struct {
	ID          WidgetID
	Name        string
	Description string
	Base        Dimension
}

// Catalog is an ordered, read-only set of widgets.
type Catalog struct {
	widgets []Widget
	byID    map[WidgetID]int
}

// New validates widgets and builds a catalog. Ids must be unique and base
// dimensions must be 1 or 2 on each axis.
func New(widgets []Widget) (*Catalog, error) {
	c := &Catalog{
		widgets: make([]Widget, 0, len(widgets)),
		byID:    make(map[WidgetID]int, len(widgets)),
	}
	for _, w := range widgets {
		w.ID = WidgetID(strings.TrimSpace(string(w.ID)))
		if w.ID == "" {
			return nil, fmt.Errorf("widget %q: empty id", w.Name)
		}
		if _, dup := c.byID[w.ID]; dup {
			return nil, fmt.Errorf("widget %q: duplicate id", w.ID)
		}
		if !validBase(w.Base.W) || !validBase(w.Base.H) {
			return nil, fmt.Errorf("widget %q: base %dx%d outside 1..2", w.ID, w.Base.W, w.Base.H)
		}
		if strings.TrimSpace(w.Name) == "" {
			w.Name = string(w.ID)
		}
		c.byID[w.ID] = len(c.widgets)
		c.widgets = append(c.widgets, w)
	}
	if len(c.widgets) == 0 {
		return nil, fmt.Errorf("catalog has no widgets")
	}
	return c, nil
}

func validBase(n int) bool { return n == 1 || n == 2 }

// Widgets returns the catalog entries in declaration order.
func (c *Catalog) Widgets() []Widget {
	return slices.Clone(c.widgets)
}

// IDs returns every widget id in declaration order.
func (c *Catalog) IDs() []WidgetID {
	out := make([]WidgetID, len(c.widgets))
	for i, w := range c.widgets {
		out[i] = w.ID
	}
	return out
}

func (c *Catalog) Len() int { return len(c.widgets) }

func (c *Catalog) Has(id WidgetID) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Lookup(id WidgetID) (Widget, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Widget{}, false
	}
	return c.widgets[idx], true
}

// Base returns the declared footprint of id.
func (c *Catalog) Base(id WidgetID) (Dimension, bool) {
	w, ok := c.Lookup(id)
	return w.Base, ok
}

// Name returns the display name of id, or the raw id when unknown.
func (c *Catalog) Name(id WidgetID) string {
	if w, ok := c.Lookup(id); ok {
		return w.Name
	}
	return string(id)
}
