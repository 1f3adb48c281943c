package simpleexcel

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type payrollRow struct {
	ID     int
	First  string
	Last   string
	Salary float64
	Bonus  float64
}

func payrollColumns() []ColumnConfig {
	return []ColumnConfig{
		{FieldName: "ID", Header: "ID", Width: 8},
		{Header: "Name", Columns: []ColumnConfig{
			{FieldName: "First", Header: "First", Width: 15},
			{FieldName: "Last", Header: "Last", Width: 15},
		}},
		{Header: "Pay", Columns: []ColumnConfig{
			{Header: "Base", Columns: []ColumnConfig{
				{FieldName: "Salary", Header: "Salary"},
			}},
			{FieldName: "Bonus", Header: "Bonus"},
		}},
	}
}

func payrollData() []payrollRow {
	return []payrollRow{
		{1, "Ada", "Lovelace", 100, 10},
		{2, "Alan", "Turing", 200, 20},
	}
}

func mergedRanges(t *testing.T, f *excelize.File, sheet string) []string {
	t.Helper()
	cells, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	var out []string
	for _, mc := range cells {
		out = append(out, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	return out
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestBuildExcelGroupedHeader(t *testing.T) {
	exporter := NewExcelDataExporter().
		AddSheet("Payroll").
		AddSection(&SectionConfig{
			Title:      "Payroll",
			ShowHeader: true,
			HasFilter:  true,
			Data:       payrollData(),
			Columns:    payrollColumns(),
		}).
		Build()

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	// Row 1: title, rows 2-4: header grid, rows 5-6: data
	assert.Equal(t, "Payroll", cellValue(t, f, "Payroll", "A1"))
	assert.Equal(t, "", cellValue(t, f, "Payroll", "A2"))
	assert.Equal(t, "Pay", cellValue(t, f, "Payroll", "D2"))
	assert.Equal(t, "Name", cellValue(t, f, "Payroll", "B3"))
	assert.Equal(t, "Base", cellValue(t, f, "Payroll", "D3"))
	assert.Equal(t, "", cellValue(t, f, "Payroll", "E3"))
	for cell, want := range map[string]string{"A4": "ID", "B4": "First", "C4": "Last", "D4": "Salary", "E4": "Bonus"} {
		assert.Equal(t, want, cellValue(t, f, "Payroll", cell), cell)
	}
	assert.Equal(t, "1", cellValue(t, f, "Payroll", "A5"))
	assert.Equal(t, "Turing", cellValue(t, f, "Payroll", "C6"))
	assert.Equal(t, "20", cellValue(t, f, "Payroll", "E6"))

	assert.ElementsMatch(t, []string{"A1:E1", "D2:E2", "B3:C3"}, mergedRanges(t, f, "Payroll"))

	width, err := f.GetColWidth("Payroll", "B")
	require.NoError(t, err)
	assert.Equal(t, 15.0, width)
}

func TestBuildExcelNoSheets(t *testing.T) {
	_, err := NewExcelDataExporter().BuildExcel()
	assert.Error(t, err)
}

func TestDataExporterWithFormatter(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.RegisterFormatter("currency", func(v interface{}) interface{} {
		if price, ok := v.(float64); ok {
			return fmt.Sprintf("$%.2f", price)
		}
		return v
	})

	cols := payrollColumns()
	cols[2].Columns[0].Columns[0].FormatterName = "currency"
	cols[1].Columns[1].Formatter = func(v interface{}) interface{} {
		if s, ok := v.(string); ok {
			return strings.ToUpper(s)
		}
		return v
	}

	exporter.AddSheet("Formatter Test").
		AddSection(&SectionConfig{
			Data:       payrollData(),
			ShowHeader: true,
			Columns:    cols,
		})

	outputFile := filepath.Join(t.TempDir(), "formatter_test.xlsx")
	require.NoError(t, exporter.ExportToExcel(context.Background(), outputFile))

	f, err := excelize.OpenFile(outputFile)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "$100.00", cellValue(t, f, "Formatter Test", "D4"))
	assert.Equal(t, "LOVELACE", cellValue(t, f, "Formatter Test", "C4"))
}

func TestExporterFromYamlConfig(t *testing.T) {
	yamlConfig := `
sheets:
  - name: "Report"
    sections:
      - id: "banner"
        type: "title"
        title: "Quarterly roster"
        col_span: 3
      - id: "employees"
        show_header: true
        freeze_header: true
        locked: true
        columns:
          - field_name: "ID"
            header: "Emp ID"
          - header: "Contact"
            locked: false
            columns:
              - field_name: "Email"
                header: "Email"
              - field_name: "Phone"
                header: "Phone"
`
	exporter, err := NewExcelDataExporterFromYamlConfig(yamlConfig)
	require.NoError(t, err)

	require.NotNil(t, exporter.GetSection("employees"))
	assert.Nil(t, exporter.GetSection("missing"))
	require.NotNil(t, exporter.GetSheet("Report"))

	exporter.BindSectionData("employees", []map[string]interface{}{
		{"ID": 7, "Email": "ada@example.com", "Phone": "555-0100"},
	})

	b, err := exporter.ToBytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	// Row 1: banner, 2: Contact group row, 3: leaves, 4: data
	assert.Equal(t, "Quarterly roster", cellValue(t, f, "Report", "A1"))
	assert.Equal(t, "Contact", cellValue(t, f, "Report", "B2"))
	assert.Equal(t, "Emp ID", cellValue(t, f, "Report", "A3"))
	assert.Equal(t, "ada@example.com", cellValue(t, f, "Report", "B4"))
	assert.ElementsMatch(t, []string{"A1:C1", "B2:C2"}, mergedRanges(t, f, "Report"))
}

func TestHiddenSection(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Hidden").
		AddSection(&SectionConfig{
			Title:      "Visible",
			ShowHeader: true,
			Data:       payrollData(),
			Columns:    payrollColumns(),
		}).
		AddSection(&SectionConfig{
			Type:       SectionTypeHidden,
			ShowHeader: true,
			Data:       []map[string]interface{}{{"Key": "version", "Value": "1"}},
			Columns: []ColumnConfig{
				{FieldName: "Key", Header: "Key"},
				{FieldName: "Value", Header: "Value"},
			},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	// The visible section ends at row 6, the hidden one spans rows 7-8.
	assert.Equal(t, "Key", cellValue(t, f, "Hidden", "A7"))
	assert.Equal(t, "version", cellValue(t, f, "Hidden", "A8"))

	visible, err := f.GetRowVisible("Hidden", 8)
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = f.GetRowVisible("Hidden", 5)
	require.NoError(t, err)
	assert.True(t, visible)

	styleID, err := f.GetCellStyle("Hidden", "A8")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestHorizontalSections(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Side").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Direction:  SectionDirectionHorizontal,
			Data:       payrollData(),
			Columns:    payrollColumns(),
		}).
		AddSection(&SectionConfig{
			ShowHeader: true,
			Direction:  SectionDirectionHorizontal,
			Data:       []map[string]interface{}{{"Note": "ok"}},
			Columns:    []ColumnConfig{{FieldName: "Note", Header: "Note"}},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Note", cellValue(t, f, "Side", "F1"))
	assert.Equal(t, "ok", cellValue(t, f, "Side", "F2"))
}

func TestAutoColumns(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Auto").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Data:       []map[string]interface{}{{"b": 2, "a": 1}},
		})

	var buf bytes.Buffer
	require.NoError(t, exporter.ToCSV(&buf))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, "1,2", lines[1])
}

func TestToCSVGroupedHeader(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("CSV").
		AddSection(&SectionConfig{
			Title:      "Report",
			ShowHeader: true,
			Data:       payrollData(),
			Columns:    payrollColumns(),
		})

	var buf bytes.Buffer
	require.NoError(t, exporter.ToCSV(&buf))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "Report", lines[0])
	assert.Equal(t, ",,,Pay,", lines[1])
	assert.Equal(t, ",Name,,Base,", lines[2])
	assert.Equal(t, "ID,First,Last,Salary,Bonus", lines[3])
	assert.Equal(t, "1,Ada,Lovelace,100,10", lines[4])
	assert.Equal(t, "2,Alan,Turing,200,20", lines[5])
}

func TestExportToExcelWritesFile(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Disk").AddSection(&SectionConfig{ShowHeader: true, Data: payrollData(), Columns: payrollColumns()})

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, exporter.ExportToExcel(context.Background(), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestToTextUsesFormatters(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.RegisterFormatter("currency", func(v interface{}) interface{} {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("$%.2f", f)
		}
		return v
	})

	cols := payrollColumns()
	cols[2].Columns[0].Columns[0].FormatterName = "currency"
	exporter.AddSheet("Text").
		AddSection(&SectionConfig{Title: "Summary", Type: SectionTypeTitleOnly}).
		AddSection(&SectionConfig{
			Title:       "Payroll",
			ShowHeader:  true,
			AutoColumns: true,
			Data:        []map[string]interface{}{{"ID": 1, "First": "Ada", "Salary": 100.0, "Dept": "R&D"}},
			Columns:     cols,
		})

	var buf bytes.Buffer
	require.NoError(t, exporter.ToText(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Summary\n"))
	assert.Contains(t, out, "Payroll\n")
	assert.Contains(t, out, "Pay")
	assert.Contains(t, out, "$100.00")
	// Auto columns append fields no leaf covers.
	assert.Contains(t, out, "Dept")
	assert.Contains(t, out, "R&D")
}

func TestToTextNoSheets(t *testing.T) {
	assert.Error(t, NewExcelDataExporter().ToText(&bytes.Buffer{}))
}
