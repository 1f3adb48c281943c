package colheader

// NBSP is the label of blank header cells so renderers never collapse them.
const NBSP = "\u00a0"

// CellType discriminates the variants of HeaderCell.
type CellType string

const (
	CellLeaf  CellType = "leaf"
	CellGroup CellType = "group"
	CellBlank CellType = "blank"
)

// HeaderCell is one cell of a header row. Key is only set on leaf cells.
type HeaderCell struct {
	Type    CellType `json:"type"`
	Colspan int      `json:"colspan"`
	Key     string   `json:"key,omitempty"`
	Name    string   `json:"name"`
}

// HeaderGrid is the list of header rows, top row first.
type HeaderGrid [][]HeaderCell

func leafCell(c Column) HeaderCell {
	return HeaderCell{Type: CellLeaf, Colspan: 1, Key: c.Key, Name: c.Name}
}

func groupCell(c Column, colspan int) HeaderCell {
	return HeaderCell{Type: CellGroup, Colspan: colspan, Name: c.Name}
}

func blankCell() *HeaderCell {
	return &HeaderCell{Type: CellBlank, Colspan: 1, Name: NBSP}
}

// Height returns the number of rows in the grid.
func (g HeaderGrid) Height() int {
	return len(g)
}

// Width returns the total colspan of the grid, which is the same for every row.
func (g HeaderGrid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return RowSpan(g[0])
}

// ExpandRow lays a header row out by position: a cell's label sits at its
// leftmost position, positions it spans and blank cells hold "".
func ExpandRow(row []HeaderCell) []string {
	out := make([]string, 0, RowSpan(row))
	for _, cell := range row {
		label := cell.Name
		if cell.Type == CellBlank {
			label = ""
		}
		out = append(out, label)
		for i := 1; i < cell.Colspan; i++ {
			out = append(out, "")
		}
	}
	return out
}
