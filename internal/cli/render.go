package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locvowork/headergrid/internal/service"
	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/locvowork/headergrid/pkg/simpleexcel"
)

type renderParams struct {
	columnsFile string
	dataFile    string
	format      string
	outFile     string
	sheet       string
	title       string
}

func newRenderCommand() *cobra.Command {
	params := renderParams{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a column tree as a table header",
		Long: `Render reads a column tree (YAML or JSON) and optional data rows (a JSON
array of objects) and writes the table in the requested format.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if params.outFile != "" {
				f, err := os.Create(params.outFile)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return render(&params, out)
		},
	}
	cmd.Flags().StringVarP(&params.columnsFile, "columns", "c", "", "column tree file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&params.dataFile, "data", "d", "", "JSON file with data rows")
	cmd.Flags().StringVarP(&params.format, "format", "f", "text", "output format: text, json, csv or xlsx")
	cmd.Flags().StringVarP(&params.outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&params.sheet, "sheet", "Sheet1", "sheet name for xlsx output")
	cmd.Flags().StringVar(&params.title, "title", "", "table title for csv and xlsx output")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func render(params *renderParams, w io.Writer) error {
	columns, err := readColumns(params.columnsFile)
	if err != nil {
		return err
	}
	if err := colheader.Validate(columns); err != nil {
		return fmt.Errorf("invalid columns in %s: %w", params.columnsFile, err)
	}

	var rows []map[string]interface{}
	if params.dataFile != "" {
		data, err := os.ReadFile(params.dataFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("decode rows in %s: %w", params.dataFile, err)
		}
	}

	format := strings.ToLower(params.format)
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(service.NewHeader(columns))
	}

	sec := &simpleexcel.SectionConfig{
		ShowHeader: true,
		Columns:    simpleexcel.FromColumns(columns),
		Data:       rows,
	}
	if params.title != "" {
		sec.Title = params.title
	}
	exporter := simpleexcel.NewExcelDataExporter()
	for name, fn := range service.DefaultFormatters() {
		exporter.RegisterFormatter(name, fn)
	}
	exporter.AddSheet(params.sheet).AddSection(sec)

	switch format {
	case "text":
		return exporter.ToText(w)
	case "csv":
		return exporter.ToCSV(w)
	case "xlsx":
		return exporter.ToWriter(w)
	}
	return fmt.Errorf("unknown format %q", params.format)
}

func readColumns(path string) ([]colheader.Column, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return colheader.ParseJSON(data)
	}
	return colheader.ParseYAML(data)
}
