package colheader

// CollectLeaves returns the data columns of the tree in left-to-right order.
// This order matches the leaf cells of the bottom row of BuildHeaderGrid.
func CollectLeaves(columns []Column) []Column {
	leaves := make([]Column, 0, len(columns))
	for _, column := range columns {
		if column.IsLeaf() {
			leaves = append(leaves, column)
		} else {
			leaves = append(leaves, CollectLeaves(column.Columns)...)
		}
	}
	return leaves
}

// CountLeaves returns the number of data columns in the tree.
func CountLeaves(columns []Column) int {
	n := 0
	for _, column := range columns {
		if column.IsLeaf() {
			n++
		} else {
			n += CountLeaves(column.Columns)
		}
	}
	return n
}

// Depth returns the height of the tree, counting a top-level leaf as 1.
// It equals the number of rows produced by BuildHeaderGrid.
func Depth(columns []Column) int {
	depth := 0
	for _, column := range columns {
		d := 1
		if !column.IsLeaf() {
			d += Depth(column.Columns)
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}
