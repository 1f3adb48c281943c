package simpleexcel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/locvowork/headergrid/pkg/tableview"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// ExcelDataExporter is the main entry point for exporting data.
type ExcelDataExporter struct {
	// data holds data bound to specific section IDs (for YAML flow)
	data map[string]interface{}
	// sheets holds both programmatic and YAML-initialized sheets
	sheets []*SheetBuilder
	// formatters holds registered formatter functions by name
	formatters map[string]func(interface{}) interface{}

	// Performance Caches
	styleCache   map[string]int
	colNameCache map[int]string
	fieldCache   map[fieldCacheKey][]int
}

// fieldCacheKey is a unique key for caching field indices.
type fieldCacheKey struct {
	Type      reflect.Type
	FieldName string
}

// =============================================================================
// Constructors
// =============================================================================

func NewExcelDataExporter() *ExcelDataExporter {
	return &ExcelDataExporter{
		data:         make(map[string]interface{}),
		sheets:       []*SheetBuilder{},
		formatters:   make(map[string]func(interface{}) interface{}),
		styleCache:   make(map[string]int),
		colNameCache: make(map[int]string),
		fieldCache:   make(map[fieldCacheKey][]int),
	}
}

// ParseReportTemplate decodes a YAML report template.
func ParseReportTemplate(yamlConfig string) (*ReportTemplate, error) {
	if yamlConfig == "" {
		return nil, fmt.Errorf("yaml config is empty")
	}
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(yamlConfig), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &tmpl, nil
}

func NewExcelDataExporterFromYamlConfig(yamlConfig string) (*ExcelDataExporter, error) {
	tmpl, err := ParseReportTemplate(yamlConfig)
	if err != nil {
		return nil, err
	}
	return NewExcelDataExporterFromTemplate(tmpl), nil
}

// NewExcelDataExporterFromTemplate creates an exporter with the sheets of tmpl.
// Sections are copied, so one template can back many exporters.
func NewExcelDataExporterFromTemplate(tmpl *ReportTemplate) *ExcelDataExporter {
	exporter := NewExcelDataExporter()
	for i := range tmpl.Sheets {
		sheetTmpl := &tmpl.Sheets[i]
		sb := exporter.AddSheet(sheetTmpl.Name)
		for j := range sheetTmpl.Sections {
			sec := sheetTmpl.Sections[j]
			sb.AddSection(&sec)
		}
	}
	return exporter
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *ExcelDataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
		sections: []*SectionConfig{},
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

// BindSectionData binds data to a section ID (for YAML-based export).
func (e *ExcelDataExporter) BindSectionData(id string, data interface{}) *ExcelDataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter registers a formatter function with a name.
// This allows referencing formatters by name in YAML configurations.
func (e *ExcelDataExporter) RegisterFormatter(name string, f func(interface{}) interface{}) *ExcelDataExporter {
	e.formatters[name] = f
	return e
}

// GetSheet returns a SheetBuilder by name, or nil if not found.
func (e *ExcelDataExporter) GetSheet(name string) *SheetBuilder {
	for _, sheet := range e.sheets {
		if sheet.name == name {
			return sheet
		}
	}
	return nil
}

// GetSection returns the first section with the given ID, or nil if not found.
func (e *ExcelDataExporter) GetSection(id string) *SectionConfig {
	for _, sheet := range e.sheets {
		for _, sec := range sheet.sections {
			if sec.ID == id {
				return sec
			}
		}
	}
	return nil
}

// BuildExcel constructs an Excel file based on the exporter's configuration and data.
func (e *ExcelDataExporter) BuildExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	f := excelize.NewFile()
	// Style ids belong to a file.
	e.styleCache = make(map[string]int)

	for i, sb := range e.sheets {
		sheetName := sb.name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", sheetName, err)
			}
		} else {
			idx, _ := f.GetSheetIndex(sheetName)
			if idx == -1 {
				if _, err := f.NewSheet(sheetName); err != nil {
					return nil, fmt.Errorf("create sheet %s: %w", sheetName, err)
				}
			}
		}

		if err := e.renderSections(f, sheetName, sb.sections); err != nil {
			return nil, fmt.Errorf("render sheet %s: %w", sheetName, err)
		}
	}

	return f, nil
}

// ExportToExcel generates the Excel file on disk.
func (e *ExcelDataExporter) ExportToExcel(ctx context.Context, path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *ExcelDataExporter) ToBytes() ([]byte, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter exports the Excel file directly to a writer.
func (e *ExcelDataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// ToCSV exports the first sheet to CSV format. Grouped headers take one CSV
// row per header row with a group label in the first column it spans.
func (e *ExcelDataExporter) ToCSV(w io.Writer) error {
	sections, err := e.plainSections()
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w)
	for _, sec := range sections {
		if sec.title != "" {
			if err := csvWriter.Write([]string{sec.title}); err != nil {
				return err
			}
		}
		for _, row := range sec.grid {
			if err := csvWriter.Write(colheader.ExpandRow(row)); err != nil {
				return err
			}
		}
		if err := csvWriter.WriteAll(sec.lines); err != nil {
			return err
		}
		// Empty line between sections
		if err := csvWriter.Write([]string{""}); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// ToText exports the first sheet as plain-text tables, one per section.
// Values go through the same formatters as the Excel and CSV output.
func (e *ExcelDataExporter) ToText(w io.Writer) error {
	sections, err := e.plainSections()
	if err != nil {
		return err
	}

	for i, sec := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if sec.title != "" {
			if _, err := fmt.Fprintln(w, sec.title); err != nil {
				return err
			}
		}
		if len(sec.grid) > 0 || len(sec.lines) > 0 {
			tableview.RenderLines(w, sec.grid, sec.lines)
		}
	}
	return nil
}

// plainSection is a section of the first sheet with values formatted as strings.
type plainSection struct {
	title string
	grid  colheader.HeaderGrid
	lines [][]string
}

func (e *ExcelDataExporter) plainSections() ([]plainSection, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	var out []plainSection
	for _, sec := range e.sheets[0].sections {
		data := e.sectionData(sec)
		dataLen := getDataLength(data)
		if dataLen == 0 && !sec.ShowHeader && sec.Title == nil {
			continue
		}

		cols := e.effectiveColumns(sec, data)
		leaves := LeafColumns(cols)

		var ps plainSection
		if sec.Title != nil {
			ps.title = fmt.Sprintf("%v", sec.Title)
		}
		if sec.ShowHeader && len(leaves) > 0 {
			ps.grid = colheader.BuildHeaderGrid(ToColumns(cols))
		}
		v := indirect(reflect.ValueOf(data))
		for i := 0; i < dataLen; i++ {
			item := v.Index(i)
			line := make([]string, len(leaves))
			for j := range leaves {
				line[j] = fmt.Sprintf("%v", e.cellValue(&leaves[j], item))
			}
			ps.lines = append(ps.lines, line)
		}
		out = append(out, ps)
	}
	return out, nil
}

// =============================================================================
// SheetBuilder
// =============================================================================

type SheetBuilder struct {
	exporter *ExcelDataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *ExcelDataExporter {
	return sb.exporter
}

// sectionData returns the data bound to the section, preferring data bound by ID.
func (e *ExcelDataExporter) sectionData(sec *SectionConfig) interface{} {
	if sec.ID != "" {
		if data, ok := e.data[sec.ID]; ok {
			return data
		}
	}
	return sec.Data
}

// effectiveColumns returns the configured columns, extended with the fields
// detected in data when the section has no columns or asks for auto columns.
func (e *ExcelDataExporter) effectiveColumns(sec *SectionConfig, data interface{}) []ColumnConfig {
	if len(sec.Columns) == 0 || sec.AutoColumns {
		return mergeColumns(data, sec.Columns)
	}
	return sec.Columns
}

// cellValue extracts and formats the value of a leaf column for one row.
func (e *ExcelDataExporter) cellValue(col *ColumnConfig, item reflect.Value) interface{} {
	return applyFormatter(col, e.extractValue(item, col.FieldName), e.formatters)
}

// applyFormatter runs the column's Formatter func, or else the registered
// formatter named by FormatterName.
func applyFormatter(col *ColumnConfig, val interface{}, formatters map[string]func(interface{}) interface{}) interface{} {
	if col.Formatter != nil {
		return col.Formatter(val)
	}
	if col.FormatterName != "" {
		if fn, ok := formatters[col.FormatterName]; ok {
			return fn(val)
		}
	}
	return val
}
