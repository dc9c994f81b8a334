package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piyushmakhija5/ai-playground/internal/config"
	apierrors "github.com/piyushmakhija5/ai-playground/internal/errors"
	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/report"
)

// ErrUnsupportedExport is returned for output paths with an unknown extension.
var ErrUnsupportedExport = errors.New("unsupported export format")

const (
	summarySheet = "Summary"
	monthlySheet = "Monthly"
)

// SummaryExporter writes reports in the format implied by the file extension.
type SummaryExporter struct {
	paths  *config.PathsConfig
	csv    *CSVWriter
	logger *slog.Logger
}

// NewSummaryExporter creates an exporter rooted at paths.OutputDir.
func NewSummaryExporter(paths *config.PathsConfig, logger *slog.Logger) *SummaryExporter {
	if paths == nil {
		paths = &config.PathsConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &SummaryExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths, logger),
		logger: logger,
	}
}

// SupportedExtensions lists the extensions Export accepts.
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx", ".json", ".md", ".html"}
}

// Export writes r to path and returns the primary file written.
func (e *SummaryExporter) Export(path string, r report.Report) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return e.ExportCSV(path, r)
	case ".xlsx":
		return e.ExportXLSX(path, r)
	case ".json":
		body, err := report.SummaryJSON(r.Summary)
		if err != nil {
			return "", err
		}
		return e.writeText(path, body+"\n")
	case ".md":
		return e.writeText(path, report.Markdown(r))
	case ".html":
		page, err := report.HTML(r)
		if err != nil {
			return "", err
		}
		return e.writeText(path, page)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExport, filepath.Ext(path))
	}
}

// ExportCSV writes the scalar metrics to path and, when the summary has
// months, the month series to a sibling file suffixed _monthly.
func (e *SummaryExporter) ExportCSV(path string, r report.Report) (string, error) {
	full, err := e.csv.WriteSimpleCSV(path, MetricHeaders, MetricRecords(r.Summary))
	if err != nil {
		return "", err
	}

	monthly := MonthlyRecords(r.Summary)
	if len(monthly) == 0 {
		return full, nil
	}
	ext := filepath.Ext(path)
	if _, err := e.csv.WriteSimpleCSV(strings.TrimSuffix(path, ext)+"_monthly"+ext, MonthlyHeaders, monthly); err != nil {
		return "", err
	}
	return full, nil
}

// ExportXLSX writes a workbook with a Summary sheet and a Monthly sheet.
func (e *SummaryExporter) ExportXLSX(path string, r report.Report) (string, error) {
	full := e.paths.OutputPath(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if r.CompanyName != "" {
		if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Company", r.CompanyName}); err != nil {
			return "", err
		}
		row = 3
	}
	if err := setMetricRows(f, summarySheet, row, r.Summary.Fields()); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(monthlySheet); err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	if err := f.SetSheetRow(monthlySheet, "A1", toRow(MonthlyHeaders)); err != nil {
		return "", err
	}
	series := monthSeries(r.Summary)
	for i, m := range r.Summary.OrdersPerMonth.Months() {
		values := []interface{}{m}
		for _, ms := range series {
			v, _ := ms.Get(m)
			values = append(values, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(monthlySheet, cell, &values); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apierrors.NewStorageError("create directory", err).WithContext("path", full)
	}
	if err := f.SaveAs(full); err != nil {
		return "", apierrors.NewStorageError("save workbook", err).WithContext("path", full)
	}
	e.logger.Info("wrote workbook", slog.String("full_path", full))
	return full, nil
}

// setMetricRows writes the metric headers at startRow followed by one row per
// scalar field. Values stay numeric so the sheet can be charted.
func setMetricRows(f *excelize.File, sheet string, startRow int, fields []financial.Field) error {
	cell, _ := excelize.CoordinatesToCellName(1, startRow)
	if err := f.SetSheetRow(sheet, cell, toRow(MetricHeaders)); err != nil {
		return err
	}
	row := startRow + 1
	for _, fld := range fields {
		if _, ok := fld.Value.(financial.MonthSeries); ok {
			continue
		}
		cell, _ = excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{fld.Key, fld.Value}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func toRow(values []string) *[]interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &row
}

func (e *SummaryExporter) writeText(path, body string) (string, error) {
	full := e.paths.OutputPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apierrors.NewStorageError("create directory", err).WithContext("path", full)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		return "", apierrors.NewStorageError("write report", err).WithContext("path", full)
	}
	e.logger.Info("wrote report", slog.String("full_path", full), slog.Int("bytes", len(body)))
	return full, nil
}
