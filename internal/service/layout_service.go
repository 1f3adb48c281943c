package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/locvowork/headergrid/internal/logger"
	"github.com/locvowork/headergrid/pkg/colheader"
	"github.com/locvowork/headergrid/pkg/simpleexcel"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

var (
	ErrLayoutNotFound    = errors.New("layout not found")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrTooManyRows       = errors.New("too many rows")
	ErrInvalidColumns    = errors.New("invalid columns")
)

// ParseFormat maps a format name to a Format, defaulting to xlsx.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ContentType returns the MIME type of files in the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatText:
		return "text/plain; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Layout is a named table layout: a section of a report template.
type Layout struct {
	ID      string
	Sheet   string
	Section simpleexcel.SectionConfig
}

// Columns returns the column tree of the layout.
func (l *Layout) Columns() []colheader.Column {
	return simpleexcel.ToColumns(l.Section.Columns)
}

// Header is a computed table header.
type Header struct {
	Grid   colheader.HeaderGrid `json:"grid"`
	Leaves []colheader.Column   `json:"leaves"`
	Height int                  `json:"height"`
	Width  int                  `json:"width"`
}

type LayoutService interface {
	List(ctx context.Context) []string
	Get(ctx context.Context, id string) (*Layout, error)
	Header(ctx context.Context, id string) (*Header, error)
	BuildHeader(ctx context.Context, columns []colheader.Column) (*Header, error)
	Export(ctx context.Context, id string, rows []map[string]interface{}, format Format, w io.Writer) error
}

type layoutService struct {
	layouts    map[string]*Layout
	maxRows    int
	formatters map[string]func(interface{}) interface{}
}

// NewLayoutService indexes every section of tmpl that has an ID. Column trees
// are validated here so that requests never see a malformed layout.
func NewLayoutService(tmpl *simpleexcel.ReportTemplate, maxRows int) (LayoutService, error) {
	s := &layoutService{
		layouts:    make(map[string]*Layout),
		maxRows:    maxRows,
		formatters: DefaultFormatters(),
	}
	for _, sheet := range tmpl.Sheets {
		for _, sec := range sheet.Sections {
			if sec.ID == "" {
				continue
			}
			if _, ok := s.layouts[sec.ID]; ok {
				return nil, fmt.Errorf("duplicate layout id %q", sec.ID)
			}
			if err := colheader.Validate(simpleexcel.ToColumns(sec.Columns)); err != nil {
				return nil, fmt.Errorf("layout %s: %w", sec.ID, err)
			}
			s.layouts[sec.ID] = &Layout{ID: sec.ID, Sheet: sheet.Name, Section: sec}
		}
	}
	return s, nil
}

// LoadLayoutService reads a YAML report template from path.
func LoadLayoutService(path string, maxRows int) (LayoutService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout config: %w", err)
	}
	tmpl, err := simpleexcel.ParseReportTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse layout config %s: %w", path, err)
	}
	return NewLayoutService(tmpl, maxRows)
}

func (s *layoutService) List(ctx context.Context) []string {
	ids := make([]string, 0, len(s.layouts))
	for id := range s.layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *layoutService) Get(ctx context.Context, id string) (*Layout, error) {
	layout, ok := s.layouts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, id)
	}
	return layout, nil
}

func (s *layoutService) Header(ctx context.Context, id string) (*Header, error) {
	layout, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewHeader(layout.Columns()), nil
}

func (s *layoutService) BuildHeader(ctx context.Context, columns []colheader.Column) (*Header, error) {
	columns = colheader.Normalize(columns)
	if err := colheader.Validate(columns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidColumns, err)
	}
	header := NewHeader(columns)
	logger.DebugLog(ctx, "Built header grid %dx%d", header.Height, header.Width)
	return header, nil
}

// NewHeader builds the header grid and leaf list of a column tree.
func NewHeader(columns []colheader.Column) *Header {
	grid := colheader.BuildHeaderGrid(columns)
	return &Header{
		Grid:   grid,
		Leaves: colheader.CollectLeaves(columns),
		Height: grid.Height(),
		Width:  grid.Width(),
	}
}

func (s *layoutService) Export(ctx context.Context, id string, rows []map[string]interface{}, format Format, w io.Writer) error {
	layout, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyRows, len(rows), s.maxRows)
	}

	sec := layout.Section
	sec.Data = rows
	exporter := simpleexcel.NewExcelDataExporter()
	for name, fn := range s.formatters {
		exporter.RegisterFormatter(name, fn)
	}
	exporter.AddSheet(layout.Sheet).AddSection(&sec)

	logger.InfoLog(ctx, "Exporting layout %s as %s (%d rows)", id, format, len(rows))
	switch format {
	case FormatCSV:
		return exporter.ToCSV(w)
	case FormatText:
		return exporter.ToText(w)
	case FormatXLSX:
		return exporter.ToWriter(w)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
