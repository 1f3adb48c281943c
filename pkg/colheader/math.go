package colheader

func sum(nums ...int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

// RowSpan returns the total colspan of a header row.
func RowSpan(row []HeaderCell) int {
	spans := make([]int, len(row))
	for i, cell := range row {
		spans[i] = cell.Colspan
	}
	return sum(spans...)
}
