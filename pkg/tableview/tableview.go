// Package tableview prints a grouped column table as plain text.
package tableview

import (
	"fmt"
	"io"
	"reflect"

	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/olekukonko/tablewriter"
)

// Render writes the header grid of columns followed by rows. A row is a map
// or struct; each leaf key selects a map entry or struct field.
func Render(w io.Writer, columns []colheader.Column, rows interface{}) error {
	leaves := colheader.CollectLeaves(columns)

	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if rows != nil && v.Kind() != reflect.Slice {
		return fmt.Errorf("rows must be a slice, got %T", rows)
	}

	var lines [][]string
	if v.IsValid() {
		lines = make([][]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			line := make([]string, len(leaves))
			for j, leaf := range leaves {
				line[j] = format(field(v.Index(i), leaf.Key))
			}
			lines = append(lines, line)
		}
	}

	RenderLines(w, colheader.BuildHeaderGrid(columns), lines)
	return nil
}

// RenderLines writes grid followed by already formatted data lines. Header
// rows and data rows are separated by row lines since plain text cannot merge
// cells.
func RenderLines(w io.Writer, grid colheader.HeaderGrid, lines [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range grid {
		table.Append(colheader.ExpandRow(row))
	}
	table.AppendBulk(lines)
	table.Render()
}

func field(item reflect.Value, key string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return nil
		}
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Map:
		if item.Type().Key().Kind() != reflect.String {
			return nil
		}
		if val := item.MapIndex(reflect.ValueOf(key).Convert(item.Type().Key())); val.IsValid() {
			return val.Interface()
		}
	case reflect.Struct:
		if f := item.FieldByName(key); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	}
	return nil
}

func format(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
