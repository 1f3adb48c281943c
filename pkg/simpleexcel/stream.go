package simpleexcel

import (
	"fmt"
	"io"
	"reflect"

	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/xuri/excelize/v2"
)

// StreamExporter manages a streaming Excel export session.
type StreamExporter struct {
	file          *excelize.File
	writer        io.Writer
	sheets        map[string]*StreamSheet
	order         []string
	headerStyleID int
	formatters    map[string]func(interface{}) interface{}
}

// NewStreamExporter creates a new StreamExporter.
func NewStreamExporter(w io.Writer) *StreamExporter {
	return &StreamExporter{
		file:          excelize.NewFile(),
		writer:        w,
		sheets:        make(map[string]*StreamSheet),
		headerStyleID: -1,
		formatters:    make(map[string]func(interface{}) interface{}),
	}
}

// RegisterFormatter registers a formatter that columns can reference through
// FormatterName.
func (e *StreamExporter) RegisterFormatter(name string, f func(interface{}) interface{}) *StreamExporter {
	e.formatters[name] = f
	return e
}

// StreamSheet represents a single sheet in a streaming export.
type StreamSheet struct {
	exporter    *StreamExporter
	stream      *excelize.StreamWriter
	name        string
	leaves      []ColumnConfig
	currentRow  int
	headerShown bool
}

// AddSheet adds a new sheet and returns a StreamSheet builder.
func (e *StreamExporter) AddSheet(name string) (*StreamSheet, error) {
	if _, ok := e.sheets[name]; ok {
		return nil, fmt.Errorf("sheet %s already exists", name)
	}

	index, err := e.file.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if index == -1 {
		if _, err := e.file.NewSheet(name); err != nil {
			return nil, err
		}
	}

	sw, err := e.file.NewStreamWriter(name)
	if err != nil {
		return nil, err
	}

	sheet := &StreamSheet{
		exporter:   e,
		stream:     sw,
		name:       name,
		currentRow: 1,
	}
	e.sheets[name] = sheet
	e.order = append(e.order, name)
	return sheet, nil
}

func (e *StreamExporter) headerStyle() (int, error) {
	if e.headerStyleID >= 0 {
		return e.headerStyleID, nil
	}
	id, err := e.file.NewStyle(toExcelStyle(&StyleTemplate{
		Font:      &FontTemplate{Bold: true},
		Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "center"},
		Border:    &BorderTemplate{Color: "000000", Style: 1},
	}))
	if err != nil {
		return 0, err
	}
	e.headerStyleID = id
	return id, nil
}

// WriteHeader writes the header rows for the sheet, one row per level of
// column grouping. It must be called once, before any data.
func (s *StreamSheet) WriteHeader(columns []ColumnConfig) error {
	if s.headerShown {
		return fmt.Errorf("header of sheet %s already written", s.name)
	}
	s.leaves = LeafColumns(columns)

	// Column widths must be set before the first row is written.
	for i, col := range s.leaves {
		if col.Width > 0 {
			if err := s.stream.SetColWidth(i+1, i+1, col.Width); err != nil {
				return err
			}
		}
	}

	styleID, err := s.exporter.headerStyle()
	if err != nil {
		return err
	}

	for _, row := range colheader.BuildHeaderGrid(ToColumns(columns)) {
		values := make([]interface{}, 0, colheader.RowSpan(row))
		col := 1
		for _, hc := range row {
			cell := excelize.Cell{StyleID: styleID}
			if hc.Type != colheader.CellBlank {
				cell.Value = hc.Name
			}
			values = append(values, cell)
			for i := 1; i < hc.Colspan; i++ {
				values = append(values, excelize.Cell{StyleID: styleID})
			}
			if hc.Colspan > 1 {
				start, _ := excelize.CoordinatesToCellName(col, s.currentRow)
				end, _ := excelize.CoordinatesToCellName(col+hc.Colspan-1, s.currentRow)
				if err := s.stream.MergeCell(start, end); err != nil {
					return err
				}
			}
			col += hc.Colspan
		}

		cell, _ := excelize.CoordinatesToCellName(1, s.currentRow)
		if err := s.stream.SetRow(cell, values); err != nil {
			return err
		}
		s.currentRow++
	}
	s.headerShown = true
	return nil
}

// WriteRow writes a single data row.
func (s *StreamSheet) WriteRow(item interface{}) error {
	if !s.headerShown {
		return fmt.Errorf("header must be written before data")
	}

	row := make([]interface{}, len(s.leaves))
	v := reflect.ValueOf(item)
	for i := range s.leaves {
		col := &s.leaves[i]
		row[i] = applyFormatter(col, extractValue(v, col.FieldName), s.exporter.formatters)
	}

	cell, _ := excelize.CoordinatesToCellName(1, s.currentRow)
	if err := s.stream.SetRow(cell, row); err != nil {
		return err
	}
	s.currentRow++
	return nil
}

// WriteBatch writes a slice of data as multiple rows.
func (s *StreamSheet) WriteBatch(slice interface{}) error {
	v := indirect(reflect.ValueOf(slice))
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("WriteBatch expects a slice, got %T", slice)
	}

	for i := 0; i < v.Len(); i++ {
		if err := s.WriteRow(v.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes all stream writers and writes the file to the output writer.
func (e *StreamExporter) Close() error {
	for _, name := range e.order {
		if err := e.sheets[name].stream.Flush(); err != nil {
			return err
		}
	}

	// Remove default Sheet1 if it wasn't used
	if _, ok := e.sheets["Sheet1"]; !ok && len(e.sheets) > 0 {
		if err := e.file.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return e.file.Write(e.writer)
}
