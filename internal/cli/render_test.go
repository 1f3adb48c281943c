package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const columnsYAML = `
- key: id
  name: ID
- name: Contact
  columns:
    - key: email
      name: Email
    - name: Phone
      columns:
        - key: home
          name: Home
        - key: work
          name: Work
`

const rowsJSON = `[{"id":1,"email":"a@example.com","home":"555-1","work":"555-2"}]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runRender(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"render"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderText(t *testing.T) {
	cols := writeFile(t, "columns.yaml", columnsYAML)
	data := writeFile(t, "rows.json", rowsJSON)

	out, err := runRender(t, "--columns", cols, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Contact")
	assert.Contains(t, out, "Phone")
	assert.Contains(t, out, "a@example.com")
}

func TestRenderJSON(t *testing.T) {
	cols := writeFile(t, "columns.yaml", columnsYAML)

	out, err := runRender(t, "--columns", cols, "--format", "json")
	require.NoError(t, err)

	var header struct {
		Height int `json:"height"`
		Width  int `json:"width"`
		Grid   [][]struct {
			Type    string `json:"type"`
			Colspan int    `json:"colspan"`
			Name    string `json:"name"`
		} `json:"grid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &header))
	assert.Equal(t, 3, header.Height)
	assert.Equal(t, 4, header.Width)
	// ID sits in the bottom row, with blanks above it.
	assert.Equal(t, "blank", header.Grid[0][0].Type)
	assert.Equal(t, "Contact", header.Grid[0][1].Name)
	assert.Equal(t, 3, header.Grid[0][1].Colspan)
	assert.Equal(t, "ID", header.Grid[2][0].Name)
}

func TestRenderCSV(t *testing.T) {
	cols := writeFile(t, "columns.json", `[{"key":"a","name":"A"},{"name":"G","columns":[{"key":"b","name":"B"},{"key":"c","name":"C"}]}]`)
	data := writeFile(t, "rows.json", `[{"a":"x","b":"y","c":"z"}]`)

	out, err := runRender(t, "--columns", cols, "--data", data, "--format", "csv", "--title", "Report")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Report", lines[0])
	assert.Equal(t, ",G,", lines[1])
	assert.Equal(t, "A,B,C", lines[2])
	assert.Equal(t, "x,y,z", lines[3])
}

func TestRenderXLSXToFile(t *testing.T) {
	cols := writeFile(t, "columns.yaml", columnsYAML)
	outPath := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := runRender(t, "--columns", cols, "--format", "xlsx", "--out", outPath, "--sheet", "Contacts")
	require.NoError(t, err)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	merges, err := f.GetMergeCells("Contacts")
	require.NoError(t, err)
	refs := make([]string, 0, len(merges))
	for _, m := range merges {
		refs = append(refs, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"B1:D1", "C2:D2"}, refs)
}

func TestRenderRejectsInvalidColumns(t *testing.T) {
	cols := writeFile(t, "columns.yaml", "- key: a\n  name: A\n- key: a\n  name: B\n")

	_, err := runRender(t, "--columns", cols)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := runRender(t)
	assert.Error(t, err)
}

func TestRenderFormatIsCaseInsensitive(t *testing.T) {
	cols := writeFile(t, "columns.json", `[{"key":"a","name":"A"},{"key":"b","name":"B"}]`)

	for _, format := range []string{"CSV", "Csv"} {
		out, err := runRender(t, "--columns", cols, "--format", format)
		require.NoError(t, err, format)
		assert.True(t, strings.HasPrefix(out, "A,B\n"), "format %s wrote %q", format, out)
	}

	out, err := runRender(t, "--columns", cols, "--format", "TEXT")
	require.NoError(t, err)
	assert.Contains(t, out, "| A")
}

func TestRenderUnknownFormat(t *testing.T) {
	cols := writeFile(t, "columns.json", `[{"key":"a","name":"A"}]`)
	_, err := runRender(t, "--columns", cols, "--format", "pdf")
	assert.Error(t, err)
}
