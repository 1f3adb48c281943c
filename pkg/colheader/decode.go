package colheader

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"
)

// Normalize returns a copy of the tree where columns without a type are
// typed from their shape: with children they are groups, otherwise data.
func Normalize(columns []Column) []Column {
	if columns == nil {
		return nil
	}
	out := make([]Column, len(columns))
	for i, column := range columns {
		if len(column.Columns) > 0 {
			column.Columns = Normalize(column.Columns)
		}
		if column.Type == "" {
			if len(column.Columns) > 0 {
				column.Type = TypeGroup
			} else {
				column.Type = TypeData
			}
		}
		out[i] = column
	}
	return out
}

// ParseYAML decodes a YAML list of columns.
func ParseYAML(data []byte) ([]Column, error) {
	var columns []Column
	if err := yaml.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decode yaml columns: %w", err)
	}
	return Normalize(columns), nil
}

// ParseJSON decodes a JSON array of columns.
func ParseJSON(data []byte) ([]Column, error) {
	var columns []Column
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decode json columns: %w", err)
	}
	return Normalize(columns), nil
}
