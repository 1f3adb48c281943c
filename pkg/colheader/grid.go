package colheader

// BuildHeaderGrid turns a column tree into header rows. Every row spans the
// number of leaves and the grid is as tall as the deepest leaf. Columns whose
// subtree is shallower than the grid are bottom aligned and padded with blank
// cells above.
//
// A group without children is invalid input and makes BuildHeaderGrid panic.
// Use Validate to reject such trees up front.
func BuildHeaderGrid(columns []Column) HeaderGrid {
	// Local rows of every top-level column:
	//
	// columns: {...}        {...}        {...}
	// rows:    [[..] [..]]  [[..]]       [[..] [..] [..]]
	columnRows := make([]HeaderGrid, len(columns))
	for i, column := range columns {
		columnRows[i] = localRows(column)
	}

	height, width := 0, 0
	for _, rows := range columnRows {
		if len(rows) > height {
			height = len(rows)
		}
		width += RowSpan(rows[0])
	}

	// nil slots are positions merged into a spanning cell on their left.
	working := make([][]*HeaderCell, height)
	for i := range working {
		working[i] = make([]*HeaderCell, width)
		for j := range working[i] {
			working[i][j] = blankCell()
		}
	}

	columnOffset := 0
	for _, rows := range columnRows {
		blankRows := height - len(rows)
		for rowIdx, row := range rows {
			target := working[blankRows+rowIdx]
			offset := columnOffset
			for _, cell := range row {
				cell := cell
				target[offset] = &cell
				for merged := 1; merged < cell.Colspan; merged++ {
					target[offset+merged] = nil
				}
				offset += cell.Colspan
			}
		}
		columnOffset += RowSpan(rows[0])
	}

	grid := make(HeaderGrid, height)
	for i, row := range working {
		compact := make([]HeaderCell, 0, len(row))
		for _, cell := range row {
			if cell != nil {
				compact = append(compact, *cell)
			}
		}
		grid[i] = compact
	}
	return grid
}

// localRows returns the header rows of a single column, its own cell first.
func localRows(column Column) HeaderGrid {
	if column.IsLeaf() {
		return HeaderGrid{{leafCell(column)}}
	}
	rows := BuildHeaderGrid(column.Columns)
	// The first row of the children is the one directly below the group.
	colspan := RowSpan(rows[0])
	return append(HeaderGrid{{groupCell(column, colspan)}}, rows...)
}
