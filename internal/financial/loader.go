package financial

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies the layout of an input file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrUnsupportedFormat is wrapped when the input extension is not csv or a spreadsheet.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrEmptyTable is wrapped when the input has no header row.
	ErrEmptyTable = errors.New("input has no header row")
)

// LoadError reports a missing, unreadable or unparseable input. It is the
// only error the pipeline returns.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	target := e.Path
	if target == "" {
		target = "input"
	}
	if e.Format == "" {
		return fmt.Sprintf("load %s: %v", target, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", target, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DetectFormat maps a file name to a Format using its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		// excelize reads OOXML only; legacy BIFF workbooks must be re-saved
		return "", fmt.Errorf("%w: %q (save the workbook as .xlsx)", ErrUnsupportedFormat, ".xls")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Table is the raw tabular content of an input file.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a table and pads short rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Column returns the index of a column, or -1 when absent.
func (t *Table) Column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	return t.Column(name) >= 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// LoaderConfig holds options for the Loader.
type LoaderConfig struct {
	SheetName string // Spreadsheet sheet to read; the first sheet when empty
}

// Loader reads CSV and spreadsheet exports into a Table.
type Loader struct {
	logger *slog.Logger
	config LoaderConfig
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader")), config: config}
}

// LoadFile opens path and reads it with the format implied by its extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Err: err}
	}
	defer f.Close()

	table, err := l.read(ctx, f, format)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Err: err}
	}

	l.logger.DebugContext(ctx, "loaded input file",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Header)))
	return table, nil
}

// Load reads r in the given format.
func (l *Loader) Load(ctx context.Context, r io.Reader, format Format) (*Table, error) {
	table, err := l.read(ctx, r, format)
	if err != nil {
		return nil, &LoadError{Format: format, Err: err}
	}
	return table, nil
}

func (l *Loader) read(ctx context.Context, r io.Reader, format Format) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(ctx, r)
	case FormatXLSX:
		rows, err = l.readSpreadsheet(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	headerAt := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyTable
	}

	header := make([]string, len(rows[headerAt]))
	for i, h := range rows[headerAt] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return NewTable(header, rows[headerAt+1:]), nil
}

func readCSV(ctx context.Context, r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func (l *Loader) readSpreadsheet(ctx context.Context, r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := l.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyTable
		}
		sheet = sheets[0]
	}

	// Raw values keep dates as serial numbers and money without display formatting.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
