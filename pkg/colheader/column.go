package colheader

// ColumnType discriminates the variants of Column.
type ColumnType string

const (
	TypeData  ColumnType = "data"  // Leaf column bound to a data field
	TypeGroup ColumnType = "group" // Column grouping other columns
)

// Column is a node of a column tree. Leaves (TypeData) carry Key and Name,
// groups (TypeGroup) carry Name and a non-empty ordered list of child columns.
// A column without a Type is a leaf when it has a Key and a group otherwise.
type Column struct {
	Type    ColumnType `json:"type" yaml:"type"`
	Key     string     `json:"key,omitempty" yaml:"key"`
	Name    string     `json:"name" yaml:"name"`
	Columns []Column   `json:"columns,omitempty" yaml:"columns"`
}

// Leaf returns a data column.
func Leaf(key, name string) Column {
	return Column{Type: TypeData, Key: key, Name: name}
}

// Group returns a column grouping the given children.
func Group(name string, columns ...Column) Column {
	return Column{Type: TypeGroup, Name: name, Columns: columns}
}

// IsLeaf reports whether the column is a data column.
func (c Column) IsLeaf() bool {
	return c.Type == TypeData || (c.Type == "" && c.Key != "")
}

// IsGroup reports whether the column is a group.
func (c Column) IsGroup() bool {
	return c.Type == TypeGroup || (c.Type == "" && c.Key == "")
}
