package simpleexcel

import (
	"fmt"
	"reflect"

	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// Rendering Logic
// =============================================================================

// calculatePosition returns the start coordinates for a section.
func calculatePosition(sec *SectionConfig, nextColHorizontal, maxRow int) (int, int) {
	if sec.Position != "" {
		c, r, err := excelize.CellNameToCoordinates(sec.Position)
		if err == nil {
			return c, r
		}
	}

	if sec.Direction == SectionDirectionHorizontal {
		return nextColHorizontal, 1
	}
	return 1, maxRow
}

// getDataLength returns the number of data rows held by a slice.
func getDataLength(data interface{}) int {
	v := indirect(reflect.ValueOf(data))
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 0
}

func sectionType(sec *SectionConfig) string {
	if sec.Type == "" {
		return SectionTypeFull
	}
	return sec.Type
}

// titleSpan returns the number of columns a title covers.
func titleSpan(sec *SectionConfig, width int) int {
	if sectionType(sec) == SectionTypeTitleOnly && sec.ColSpan > 1 {
		return sec.ColSpan
	}
	if width < 1 {
		return 1
	}
	return width
}

func hasLockedCells(sections []*SectionConfig) bool {
	for _, sec := range sections {
		if sec.Locked {
			return true
		}
		if anyLocked(sec.Columns) {
			return true
		}
	}
	return false
}

func anyLocked(cols []ColumnConfig) bool {
	for _, col := range cols {
		if col.Locked != nil && *col.Locked {
			return true
		}
		if anyLocked(col.Columns) {
			return true
		}
	}
	return false
}

func (e *ExcelDataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	maxRow := 1
	nextColHorizontal := 1
	hiddenRows := []int{}

	locked := hasLockedCells(sections)
	if locked {
		unlocked := false
		styleID, err := e.createStyle(f, &StyleTemplate{Locked: &unlocked})
		if err != nil {
			return err
		}
		if err := f.SetColStyle(sheet, "A:XFD", styleID); err != nil {
			return err
		}
	}

	for _, sec := range sections {
		sCol, sRow := calculatePosition(sec, nextColHorizontal, maxRow)
		placement, err := e.renderSection(f, sheet, sec, sCol, sRow)
		if err != nil {
			if sec.ID != "" {
				return fmt.Errorf("section %s: %w", sec.ID, err)
			}
			return err
		}

		if sectionType(sec) == SectionTypeHidden {
			for r := sRow; r < placement.endRow; r++ {
				hiddenRows = append(hiddenRows, r)
			}
		}
		if placement.endRow > maxRow {
			maxRow = placement.endRow
		}
		nextColHorizontal = sCol + placement.width
	}

	for _, r := range hiddenRows {
		if err := f.SetRowVisible(sheet, r, false); err != nil {
			return err
		}
	}

	if locked {
		return f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			FormatColumns:       true,
			FormatRows:          true,
			AutoFilter:          true,
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
	}
	return nil
}

// sectionPlacement describes where a rendered section ended.
type sectionPlacement struct {
	endRow int // first row after the section
	width  int // number of columns covered
}

func (e *ExcelDataExporter) renderSection(f *excelize.File, sheet string, sec *SectionConfig, sCol, sRow int) (sectionPlacement, error) {
	data := e.sectionData(sec)
	cols := e.effectiveColumns(sec, data)
	leaves := LeafColumns(cols)
	width := len(leaves)
	currentRow := sRow

	if sec.Title != nil {
		if err := e.renderTitle(f, sheet, sec, sCol, currentRow, titleSpan(sec, width)); err != nil {
			return sectionPlacement{}, err
		}
		currentRow++
	}

	if sectionType(sec) == SectionTypeTitleOnly {
		return sectionPlacement{endRow: currentRow, width: titleSpan(sec, width)}, nil
	}

	headerRow := 0
	if sec.ShowHeader && width > 0 {
		grid := colheader.BuildHeaderGrid(ToColumns(cols))
		if err := e.renderHeader(f, sheet, sec, grid, cols, sCol, currentRow); err != nil {
			return sectionPlacement{}, err
		}
		currentRow += grid.Height()
		headerRow = currentRow - 1
	}

	for i, col := range leaves {
		if col.Width > 0 {
			colName := e.getColName(sCol + i)
			if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
				return sectionPlacement{}, err
			}
		}
	}

	// Pre-calculate style IDs for data rendering
	dataStyleIDs := make([]int, width)
	for j := range leaves {
		var defaultDataStyle *StyleTemplate
		if sectionType(sec) == SectionTypeHidden {
			defaultDataStyle = &StyleTemplate{Fill: &FillTemplate{Color: "FFFF00"}}
		}
		style := resolveStyle(sec.DataStyle, defaultDataStyle, leaves[j].IsLocked(sec.Locked))
		styleID, err := e.createStyle(f, style)
		if err != nil {
			return sectionPlacement{}, err
		}
		dataStyleIDs[j] = styleID
	}

	dataLen := getDataLength(data)
	dataVal := indirect(reflect.ValueOf(data))
	for i := 0; i < dataLen; i++ {
		item := dataVal.Index(i)
		for j := range leaves {
			cell := e.getCellAddress(sCol+j, currentRow)
			if err := f.SetCellValue(sheet, cell, e.cellValue(&leaves[j], item)); err != nil {
				return sectionPlacement{}, err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dataStyleIDs[j]); err != nil {
				return sectionPlacement{}, err
			}
		}
		if sec.DataHeight > 0 {
			if err := f.SetRowHeight(sheet, currentRow, sec.DataHeight); err != nil {
				return sectionPlacement{}, err
			}
		}
		currentRow++
	}

	if sec.HasFilter && headerRow > 0 {
		firstCell := e.getCellAddress(sCol, headerRow)
		lastCell := e.getCellAddress(sCol+width-1, currentRow-1)
		if err := f.AutoFilter(sheet, fmt.Sprintf("%s:%s", firstCell, lastCell), nil); err != nil {
			return sectionPlacement{}, err
		}
	}

	if sec.FreezeHeader && headerRow > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: e.getCellAddress(1, headerRow+1),
			ActivePane:  "bottomLeft",
		}); err != nil {
			return sectionPlacement{}, err
		}
	}

	return sectionPlacement{endRow: currentRow, width: width}, nil
}

func (e *ExcelDataExporter) renderTitle(f *excelize.File, sheet string, sec *SectionConfig, sCol, row, span int) error {
	cell := e.getCellAddress(sCol, row)
	if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
		return err
	}
	defaultTitle := &StyleTemplate{
		Font:      &FontTemplate{Bold: true},
		Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "top"},
	}
	styleID, err := e.createStyle(f, resolveStyle(sec.TitleStyle, defaultTitle, sec.Locked))
	if err != nil {
		return err
	}
	endCell := cell
	if span > 1 {
		endCell = e.getCellAddress(sCol+span-1, row)
		if err := f.MergeCell(sheet, cell, endCell); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell, endCell, styleID); err != nil {
		return err
	}
	if sec.TitleHeight > 0 {
		return f.SetRowHeight(sheet, row, sec.TitleHeight)
	}
	return nil
}

// renderHeader writes one sheet row per grid row. Spanning cells are merged
// and blank cells are left empty but styled like the rest of the header.
func (e *ExcelDataExporter) renderHeader(f *excelize.File, sheet string, sec *SectionConfig, grid colheader.HeaderGrid, cols []ColumnConfig, sCol, sRow int) error {
	leaves := LeafColumns(cols)
	defaultHeader := &StyleTemplate{
		Font:      &FontTemplate{Bold: true},
		Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "center"},
		Border:    &BorderTemplate{Color: "000000", Style: 1},
	}

	for r, row := range grid {
		rowNum := sRow + r
		offset := 0
		for _, hc := range row {
			cell := e.getCellAddress(sCol+offset, rowNum)
			endCell := e.getCellAddress(sCol+offset+hc.Colspan-1, rowNum)

			if hc.Type != colheader.CellBlank {
				if err := f.SetCellValue(sheet, cell, hc.Name); err != nil {
					return err
				}
			}
			if hc.Colspan > 1 {
				if err := f.MergeCell(sheet, cell, endCell); err != nil {
					return err
				}
			}

			// A spanning cell is locked when every leaf below it is.
			locked := true
			for _, leaf := range leaves[offset : offset+hc.Colspan] {
				locked = locked && leaf.IsLocked(sec.Locked)
			}
			styleID, err := e.createStyle(f, resolveStyle(sec.HeaderStyle, defaultHeader, locked))
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, endCell, styleID); err != nil {
				return err
			}
			offset += hc.Colspan
		}
		if sec.HeaderHeight > 0 {
			if err := f.SetRowHeight(sheet, rowNum, sec.HeaderHeight); err != nil {
				return err
			}
		}
	}
	return nil
}
