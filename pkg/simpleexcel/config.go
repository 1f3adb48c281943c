package simpleexcel

import (
	"github.com/locvowork/headergrid/pkg/colheader"
)

// =============================================================================
// Constants & Types
// =============================================================================

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
	SectionTypeFull            = "full"   // Normal section with title, header, and data
	SectionTypeTitleOnly       = "title"  // Only display title
	SectionTypeHidden          = "hidden" // Hidden section (rows will be hidden)
	DefaultLockedColor         = "E0E0E0" // Light Gray for locked cells
	DefaultColumnWidth         = 20
)

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets" json:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name" json:"name"`
	Sections []SectionConfig `yaml:"sections" json:"sections"`
}

// SectionConfig defines a section of data in a sheet.
type SectionConfig struct {
	ID           string         `yaml:"id" json:"id"`
	Title        interface{}    `yaml:"title" json:"title,omitempty"`
	ColSpan      int            `yaml:"col_span" json:"col_span,omitempty"` // Columns spanned by title-only sections
	Data         interface{}    `yaml:"-" json:"-"`                         // Data is bound at runtime
	Type         string         `yaml:"type" json:"type,omitempty"`         // "full", "title", "hidden"
	Locked       bool           `yaml:"locked" json:"locked,omitempty"`     // Section-level lock (default for all columns)
	ShowHeader   bool           `yaml:"show_header" json:"show_header"`
	AutoColumns  bool           `yaml:"auto_columns" json:"auto_columns,omitempty"` // Append data fields missing from Columns
	Direction    string         `yaml:"direction" json:"direction,omitempty"`       // "horizontal" or "vertical"
	Position     string         `yaml:"position" json:"position,omitempty"`         // e.g., "A1"
	TitleStyle   *StyleTemplate `yaml:"title_style" json:"title_style,omitempty"`
	HeaderStyle  *StyleTemplate `yaml:"header_style" json:"header_style,omitempty"`
	DataStyle    *StyleTemplate `yaml:"data_style" json:"data_style,omitempty"`
	TitleHeight  float64        `yaml:"title_height" json:"title_height,omitempty"`
	HeaderHeight float64        `yaml:"header_height" json:"header_height,omitempty"`
	DataHeight   float64        `yaml:"data_height" json:"data_height,omitempty"`
	HasFilter    bool           `yaml:"has_filter" json:"has_filter,omitempty"`
	FreezeHeader bool           `yaml:"freeze_header" json:"freeze_header,omitempty"`
	Columns      []ColumnConfig `yaml:"columns" json:"columns"`
}

// ColumnConfig defines a column in a section. A column with nested Columns is
// a group: its Header is drawn above its children and FieldName is ignored.
type ColumnConfig struct {
	FieldName     string                        `yaml:"field_name" json:"field_name,omitempty"` // Struct field name or map key
	Header        string                        `yaml:"header" json:"header"`
	Width         float64                       `yaml:"width" json:"width,omitempty"`
	Locked        *bool                         `yaml:"locked" json:"locked,omitempty"` // Overrides the section (or enclosing group) lock
	Formatter     func(interface{}) interface{} `yaml:"-" json:"-"`                     // Optional custom formatter function (Programmatic)
	FormatterName string                        `yaml:"formatter" json:"formatter,omitempty"`
	Columns       []ColumnConfig                `yaml:"columns" json:"columns,omitempty"`
}

// IsGroup reports whether the column groups other columns.
func (c *ColumnConfig) IsGroup() bool {
	return len(c.Columns) > 0
}

// IsLocked returns whether this column should be locked.
// If column has explicit Locked setting, use that; otherwise use section default.
func (c *ColumnConfig) IsLocked(sectionLocked bool) bool {
	if c.Locked != nil {
		return *c.Locked
	}
	return sectionLocked
}

func (c *ColumnConfig) headerText() string {
	if c.Header == "" {
		return c.FieldName
	}
	return c.Header
}

// ToColumns converts column configs into a column tree.
func ToColumns(cols []ColumnConfig) []colheader.Column {
	out := make([]colheader.Column, len(cols))
	for i := range cols {
		col := &cols[i]
		if col.IsGroup() {
			out[i] = colheader.Group(col.headerText(), ToColumns(col.Columns)...)
		} else {
			out[i] = colheader.Leaf(col.FieldName, col.headerText())
		}
	}
	return out
}

// FromColumns is the inverse of ToColumns: keys become field names and names
// become headers.
func FromColumns(columns []colheader.Column) []ColumnConfig {
	out := make([]ColumnConfig, len(columns))
	for i, column := range columns {
		out[i] = ColumnConfig{Header: column.Name}
		if column.IsGroup() {
			out[i].Columns = FromColumns(column.Columns)
		} else {
			out[i].FieldName = column.Key
		}
	}
	return out
}

// LeafColumns returns the data columns in display order. Locks set on a group
// are inherited by the leaves below it that do not set their own.
func LeafColumns(cols []ColumnConfig) []ColumnConfig {
	return appendLeaves(nil, cols, nil)
}

func appendLeaves(dst []ColumnConfig, cols []ColumnConfig, inherited *bool) []ColumnConfig {
	for _, col := range cols {
		if col.Locked == nil {
			col.Locked = inherited
		}
		if col.IsGroup() {
			dst = appendLeaves(dst, col.Columns, col.Locked)
			continue
		}
		dst = append(dst, col)
	}
	return dst
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font" json:"font,omitempty"`
	Fill      *FillTemplate      `yaml:"fill" json:"fill,omitempty"`
	Alignment *AlignmentTemplate `yaml:"alignment" json:"alignment,omitempty"`
	Border    *BorderTemplate    `yaml:"border" json:"border,omitempty"`
	Locked    *bool              `yaml:"locked" json:"locked,omitempty"`
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal" json:"horizontal,omitempty"` // center, left, right
	Vertical   string `yaml:"vertical" json:"vertical,omitempty"`     // top, center, bottom
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold" json:"bold,omitempty"`
	Color string `yaml:"color" json:"color,omitempty"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color" json:"color,omitempty"` // Hex color
}

// BorderTemplate draws the same border on all four sides of a cell.
type BorderTemplate struct {
	Color string `yaml:"color" json:"color,omitempty"` // Hex color
	Style int    `yaml:"style" json:"style,omitempty"` // excelize border style, 1 is thin
}
