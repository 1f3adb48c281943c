// Package colheader computes table headers for grouped columns.
//
// A table is declared as a tree of columns: data columns (leaves) bound to a
// field of a row, and groups that put a shared label above their children.
// CollectLeaves flattens the tree into the data columns in display order and
// BuildHeaderGrid lays the tree out as rows of header cells with colspans,
// ready to be rendered as a multi-row header:
//
//	columns := []colheader.Column{
//		colheader.Group("Name", colheader.Leaf("first", "First"), colheader.Leaf("last", "Last")),
//		colheader.Leaf("age", "Age"),
//	}
//	grid := colheader.BuildHeaderGrid(columns)
//	// grid[0]: Name(2) blank(1)
//	// grid[1]: First(1) Last(1) Age(1)
//
// Both functions are pure and safe for concurrent use.
package colheader
