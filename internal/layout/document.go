package layout

import (
	"encoding/json"
	"fmt"
)

// Document is the wire shape of a snapshot: span classes are carried as
// presentation tokens so the stored form matches what a grid renderer
// consumes.
type Document struct {
	Version         int               `json:"version" yaml:"version"`
	Layout          []string          `json:"layout" yaml:"layout"`
	Hidden          []string          `json:"hidden" yaml:"hidden"`
	ColSpans        map[string]string `json:"colSpans" yaml:"colSpans"`
	RowSpans        map[string]string `json:"rowSpans" yaml:"rowSpans"`
	CustomSizes     map[string]Size   `json:"customSizes" yaml:"customSizes"`
	ExpandedWidgets []string          `json:"expandedWidgets" yaml:"expandedWidgets"`
	EditMode        bool              `json:"editMode" yaml:"editMode"`
}

// ToDocument converts s to its wire shape.
func ToDocument(s Snapshot) Document {
	d := Document{
		Version:         s.Version,
		Layout:          idStrings(s.Layout),
		Hidden:          idStrings(s.Hidden),
		ColSpans:        make(map[string]string, len(s.ColSpans)),
		RowSpans:        make(map[string]string, len(s.RowSpans)),
		CustomSizes:     make(map[string]Size, len(s.CustomSizes)),
		ExpandedWidgets: idStrings(s.ExpandedWidgets),
		EditMode:        s.EditMode,
	}
	for id, sp := range s.ColSpans {
		d.ColSpans[string(id)] = sp.ColToken()
	}
	for id, sp := range s.RowSpans {
		if sp != SpanNone {
			d.RowSpans[string(id)] = sp.RowToken()
		}
	}
	for id, sz := range s.CustomSizes {
		d.CustomSizes[string(id)] = sz
	}
	return d
}

// FromDocument converts a wire document back to a snapshot. Unrecognised
// span tokens are dropped; Normalize recomputes spans anyway.
func FromDocument(d Document) Snapshot {
	s := Snapshot{
		Version:         d.Version,
		Layout:          stringIDs(d.Layout),
		Hidden:          stringIDs(d.Hidden),
		ColSpans:        make(map[WidgetID]Span, len(d.ColSpans)),
		RowSpans:        make(map[WidgetID]Span, len(d.RowSpans)),
		CustomSizes:     make(map[WidgetID]Size, len(d.CustomSizes)),
		ExpandedWidgets: stringIDs(d.ExpandedWidgets),
		EditMode:        d.EditMode,
	}
	for id, tok := range d.ColSpans {
		if sp, ok := ParseColToken(tok); ok {
			s.ColSpans[WidgetID(id)] = sp
		}
	}
	for id, tok := range d.RowSpans {
		if sp, ok := ParseRowToken(tok); ok && sp != SpanNone {
			s.RowSpans[WidgetID(id)] = sp
		}
	}
	for id, sz := range d.CustomSizes {
		s.CustomSizes[WidgetID(id)] = sz
	}
	return s
}

// Marshal encodes s as a JSON document.
func Marshal(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(ToDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (Snapshot, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Snapshot{}, fmt.Errorf("decode layout: %w", err)
	}
	return FromDocument(d), nil
}

func idStrings(ids []WidgetID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func stringIDs(ss []string) []WidgetID {
	out := make([]WidgetID, len(ss))
	for i, s := range ss {
		out[i] = WidgetID(s)
	}
	return out
}
