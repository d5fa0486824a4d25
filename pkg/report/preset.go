package report

import (
	"fmt"
	"strings"
)

// Preset selects how issues are located and partitioned into tables.
type Preset string

const (
	// PresetTabular covers spreadsheets and CSV-like data split into sheets and tables.
	PresetTabular Preset = "tabular"
	// PresetGeoJSON covers GeoJSON feature collections.
	PresetGeoJSON Preset = "geojson"
	// PresetDocument covers free text documents.
	PresetDocument Preset = "document"
)

// Location keys used by the built-in presets.
const (
	LocSheet        = "sheet"
	LocTable        = "table"
	LocRow          = "row"
	LocColumn       = "column"
	LocFeature      = "feature"
	LocProperty     = "property"
	LocLine         = "line"
	LocCharacter    = "character"
	LocEndLine      = "end-line"
	LocEndCharacter = "end-character"
)

// ParsePreset resolves a preset name.
func ParsePreset(name string) (Preset, error) {
	preset := Preset(name)
	if !preset.IsValid() {
		return "", fmt.Errorf("%w: %q; must be one of: tabular, geojson, document", ErrUnknownPreset, name)
	}
	return preset, nil
}

// IsValid returns true if the preset has an implementation.
func (p Preset) IsValid() bool {
	switch p {
	case PresetTabular, PresetGeoJSON, PresetDocument:
		return true
	default:
		return false
	}
}

// String returns the preset name.
func (p Preset) String() string {
	return string(p)
}

// Partitioner derives the table key an issue belongs to.
type Partitioner interface {
	TableKey(issue Issue) string
}

// TableKey returns the table key of the issue under this preset. Tabular reports
// are split by sheet and table; the other presets have a single implicit table "".
func (p Preset) TableKey(issue Issue) string {
	switch p {
	case PresetTabular:
		return tabularTableKey(issue.Item.Location)
	case PresetGeoJSON, PresetDocument:
		return ""
	default:
		return ""
	}
}

func tabularTableKey(loc Location) string {
	var key strings.Builder
	if sheet, ok := loc.String(LocSheet); ok {
		key.WriteString(":")
		key.WriteString(sheet)
	}
	if table, ok := loc.String(LocTable); ok {
		key.WriteString(":")
		key.WriteString(table)
	}
	return key.String()
}

// Locator describes where an issue was found. Each preset has its own locator
// type; the issue builder rejects a locator of another preset.
type Locator interface {
	Preset() Preset
	Item() Item
}

// TabularLocation locates an issue in tabular data. Nil indices are absent.
type TabularLocation struct {
	Sheet  string
	Table  string
	Row    *int
	Column *int
}

// Cell locates a single cell.
func Cell(row, column int) TabularLocation {
	return TabularLocation{Row: &row, Column: &column}
}

// RowAt locates a whole row.
func RowAt(row int) TabularLocation {
	return TabularLocation{Row: &row}
}

// ColumnAt locates a whole column.
func ColumnAt(column int) TabularLocation {
	return TabularLocation{Column: &column}
}

// InSheet returns a copy of the location inside the named sheet.
func (l TabularLocation) InSheet(sheet string) TabularLocation {
	l.Sheet = sheet
	return l
}

// InTable returns a copy of the location inside the named table.
func (l TabularLocation) InTable(table string) TabularLocation {
	l.Table = table
	return l
}

// Preset implements Locator.
func (TabularLocation) Preset() Preset { return PresetTabular }

// Item implements Locator.
func (l TabularLocation) Item() Item {
	loc := Location{}
	if l.Sheet != "" {
		loc[LocSheet] = l.Sheet
	}
	if l.Table != "" {
		loc[LocTable] = l.Table
	}
	if l.Row != nil {
		loc[LocRow] = *l.Row
	}
	if l.Column != nil {
		loc[LocColumn] = *l.Column
	}

	kind := KindGlobal
	switch {
	case l.Row != nil && l.Column != nil:
		kind = KindCell
	case l.Row != nil:
		kind = KindRow
	case l.Column != nil:
		kind = KindColumn
	case l.Table != "":
		kind = KindTable
	case l.Sheet != "":
		kind = KindSheet
	}
	return NewItem(kind, loc)
}

// GeoJSONLocation locates an issue in a feature collection.
type GeoJSONLocation struct {
	Feature  *int
	Property string
}

// FeatureAt locates the feature with the given index.
func FeatureAt(index int) GeoJSONLocation {
	return GeoJSONLocation{Feature: &index}
}

// Preset implements Locator.
func (GeoJSONLocation) Preset() Preset { return PresetGeoJSON }

// Item implements Locator.
func (l GeoJSONLocation) Item() Item {
	if l.Feature == nil {
		return GlobalItem()
	}
	loc := Location{LocFeature: *l.Feature}
	if l.Property != "" {
		loc[LocProperty] = l.Property
	}
	return NewItem(KindFeature, loc)
}

// DocumentLocation locates an issue in a text document.
type DocumentLocation struct {
	Line         *int
	Character    *int
	EndLine      *int
	EndCharacter *int
}

// LineAt locates a whole line.
func LineAt(line int) DocumentLocation {
	return DocumentLocation{Line: &line}
}

// SpanAt locates a character range.
func SpanAt(line, character, endLine, endCharacter int) DocumentLocation {
	return DocumentLocation{Line: &line, Character: &character, EndLine: &endLine, EndCharacter: &endCharacter}
}

// Preset implements Locator.
func (DocumentLocation) Preset() Preset { return PresetDocument }

// Item implements Locator.
func (l DocumentLocation) Item() Item {
	if l.Line == nil {
		return GlobalItem()
	}
	loc := Location{LocLine: *l.Line}
	kind := KindLine
	if l.Character != nil {
		loc[LocCharacter] = *l.Character
		kind = KindSpan
	}
	if l.EndLine != nil {
		loc[LocEndLine] = *l.EndLine
		kind = KindSpan
	}
	if l.EndCharacter != nil {
		loc[LocEndCharacter] = *l.EndCharacter
		kind = KindSpan
	}
	return NewItem(kind, loc)
}
