package colheader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectLeaves(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		want    []string
	}{
		{"flat", []Column{Leaf("a", "A"), Leaf("b", "B")}, []string{"a", "b"}},
		{"group then leaf", []Column{Group("G", Leaf("a", "A"), Leaf("b", "B")), Leaf("c", "C")}, []string{"a", "b", "c"}},
		{"nested", []Column{Group("G1", Leaf("a", "A"), Group("G2", Leaf("b", "B")))}, []string{"a", "b"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves := CollectLeaves(tt.columns)
			keys := make([]string, 0, len(leaves))
			for _, leaf := range leaves {
				assert.True(t, leaf.IsLeaf())
				keys = append(keys, leaf.Key)
			}
			assert.Equal(t, tt.want, keys)
			assert.Equal(t, len(tt.want), CountLeaves(tt.columns))
		})
	}
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth(nil))
	assert.Equal(t, 1, Depth([]Column{Leaf("a", "A")}))
	assert.Equal(t, 3, Depth([]Column{Leaf("x", "X"), Group("G1", Leaf("a", "A"), Group("G2", Leaf("b", "B")))}))
}

func TestUntypedColumns(t *testing.T) {
	columns := []Column{
		{Key: "a", Name: "A"},
		{Name: "G", Columns: []Column{{Key: "b", Name: "B"}, {Key: "c", Name: "C"}}},
	}

	assert.True(t, columns[0].IsLeaf())
	assert.True(t, columns[1].IsGroup())
	assert.NoError(t, Validate(columns))

	leaves := CollectLeaves(columns)
	assert.Len(t, leaves, 3)

	grid := BuildHeaderGrid(columns)
	assert.Equal(t, 2, grid.Height())
	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, CellLeaf, grid[1][0].Type)
	assert.Equal(t, HeaderCell{Type: CellGroup, Colspan: 2, Name: "G"}, grid[0][1])
}
