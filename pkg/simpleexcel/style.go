package simpleexcel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// resolveStyle merges defined style with default style and applies conditional locked styling.
func resolveStyle(base *StyleTemplate, defaultStyle *StyleTemplate, locked bool) *StyleTemplate {
	s := &StyleTemplate{}

	if base == nil {
		if defaultStyle != nil {
			*s = *defaultStyle
		}
	} else {
		*s = *base
		if defaultStyle != nil {
			if s.Font == nil {
				s.Font = defaultStyle.Font
			}
			if s.Fill == nil {
				s.Fill = defaultStyle.Fill
			}
			if s.Alignment == nil {
				s.Alignment = defaultStyle.Alignment
			}
			if s.Border == nil {
				s.Border = defaultStyle.Border
			}
		}
	}

	s.Locked = &locked

	// Auto-gray locked cells if no fill is explicitly set
	if locked && s.Fill == nil {
		s.Fill = &FillTemplate{Color: DefaultLockedColor}
	}

	return s
}

// getColName returns the column name for a given column number, with caching.
func (e *ExcelDataExporter) getColName(col int) string {
	if name, ok := e.colNameCache[col]; ok {
		return name
	}
	name, _ := excelize.ColumnNumberToName(col)
	e.colNameCache[col] = name
	return name
}

// getCellAddress returns the cell address for given coordinates.
func (e *ExcelDataExporter) getCellAddress(col, row int) string {
	return fmt.Sprintf("%s%d", e.getColName(col), row)
}

// styleKey fingerprints a template for the style cache.
func styleKey(tmpl *StyleTemplate) string {
	var sb strings.Builder
	if tmpl.Font != nil {
		fmt.Fprintf(&sb, "f:%v:%s|", tmpl.Font.Bold, tmpl.Font.Color)
	}
	if tmpl.Fill != nil {
		fmt.Fprintf(&sb, "i:%s|", tmpl.Fill.Color)
	}
	if tmpl.Alignment != nil {
		fmt.Fprintf(&sb, "a:%s:%s|", tmpl.Alignment.Horizontal, tmpl.Alignment.Vertical)
	}
	if tmpl.Border != nil {
		fmt.Fprintf(&sb, "b:%s:%d|", tmpl.Border.Color, tmpl.Border.Style)
	}
	if tmpl.Locked != nil {
		fmt.Fprintf(&sb, "l:%v|", *tmpl.Locked)
	}
	return sb.String()
}

func toExcelStyle(tmpl *StyleTemplate) *excelize.Style {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	if tmpl.Border != nil {
		color := strings.TrimPrefix(tmpl.Border.Color, "#")
		for _, side := range []string{"left", "top", "right", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: color, Style: tmpl.Border.Style})
		}
	}
	if tmpl.Locked != nil {
		style.Protection = &excelize.Protection{
			Locked: *tmpl.Locked,
		}
	}
	return style
}

func (e *ExcelDataExporter) createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	if tmpl == nil {
		return 0, nil
	}

	key := styleKey(tmpl)
	if id, ok := e.styleCache[key]; ok {
		return id, nil
	}

	id, err := f.NewStyle(toExcelStyle(tmpl))
	if err == nil {
		e.styleCache[key] = id
	}
	return id, err
}
