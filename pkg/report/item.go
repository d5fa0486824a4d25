package report

import (
	"fmt"
	"maps"
)

// Common item kinds. Kind is free-form; presets use these names.
const (
	KindGlobal  = "Global"
	KindSheet   = "Sheet"
	KindTable   = "Table"
	KindRow     = "Row"
	KindColumn  = "Column"
	KindCell    = "Cell"
	KindFeature = "Feature"
	KindLine    = "Line"
	KindSpan    = "Span"
)

// Location maps location keys (row, column, sheet, line, feature, ...) to
// scalar values. Its shape depends on the preset.
type Location map[string]any

// String returns the location value for key rendered as a string.
func (l Location) String(key string) (string, bool) {
	value, ok := l[key]
	if !ok || value == nil {
		return "", false
	}
	if s, isString := value.(string); isString {
		return s, s != ""
	}
	return fmt.Sprint(value), true
}

// Item is a located finding: what kind of place it is, where it is, and what
// was found there.
type Item struct {
	// Kind describes what the location represents ("Cell", "Row", "Span", ...).
	Kind string

	// Location holds the coordinates of the item.
	Location Location

	// Definition describes the content found at the location.
	Definition Value

	// Properties carries extra per-item metadata.
	Properties map[string]Value
}

// NewItem creates an item of the given kind at loc.
func NewItem(kind string, loc Location) Item {
	if loc == nil {
		loc = Location{}
	}
	return Item{Kind: kind, Location: loc}
}

// GlobalItem is the fallback item for issues without a precise location.
func GlobalItem() Item {
	return NewItem(KindGlobal, nil)
}

// WithDefinition returns a copy of the item with its definition set.
func (i Item) WithDefinition(v Value) Item {
	i.Definition = v
	return i
}

// WithProperty returns a copy of the item with one property set.
func (i Item) WithProperty(key string, v Value) Item {
	props := make(map[string]Value, len(i.Properties)+1)
	maps.Copy(props, i.Properties)
	props[key] = v
	i.Properties = props
	return i
}

// ItemRecord is the serialized form of an Item.
type ItemRecord struct {
	Type       string           `json:"type"`
	Location   map[string]any   `json:"location"`
	Definition Value            `json:"definition,omitzero"`
	Properties map[string]Value `json:"properties,omitempty"`
}

// Render returns the plain record for the item. The record shares no maps
// with the item.
func (i Item) Render() ItemRecord {
	loc := maps.Clone(map[string]any(i.Location))
	if loc == nil {
		loc = map[string]any{}
	}
	return ItemRecord{
		Type:       i.Kind,
		Location:   loc,
		Definition: i.Definition,
		Properties: cloneValues(i.Properties),
	}
}

// ParseItem rebuilds an Item from its record. It is the inverse of Render.
func ParseItem(rec ItemRecord) Item {
	loc := Location(maps.Clone(rec.Location))
	if loc == nil {
		loc = Location{}
	}
	return Item{
		Kind:       rec.Type,
		Location:   loc,
		Definition: rec.Definition,
		Properties: cloneValues(rec.Properties),
	}
}
