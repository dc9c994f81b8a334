package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/piyushmakhija5/ai-playground/internal/config"
	apierrors "github.com/piyushmakhija5/ai-playground/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.PathsConfig
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.PathsConfig, logger *slog.Logger) *CSVWriter {
	if paths == nil {
		paths = &config.PathsConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // UTF-8 BOM so Excel detects the encoding
}

// WriteCSV writes data to a CSV file and returns the resolved path.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.paths.OutputPath(filePath)

	w.logger.Info("writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apierrors.NewStorageError("create directory", err).WithContext("path", fullPath)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0o644)
	if err != nil {
		return "", apierrors.NewStorageError("open csv", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return fullPath, file.Close()
}

// WriteSimpleCSV writes headers and records to a fresh file with a BOM.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}
