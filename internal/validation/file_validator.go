package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
)

// FileValidator checks dataset inputs and output locations before the
// pipeline touches them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("file does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDataset checks that path is a readable CSV or spreadsheet and
// returns its format. Excel lock files (~$name.xlsx) are rejected.
func (v *FileValidator) ValidateDataset(path string) (financial.Format, error) {
	if err := v.ValidateFile(path); err != nil {
		return "", err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("skipping temporary Excel file", slog.String("file", path))
		return "", fmt.Errorf("file %s is a temporary Excel file", path)
	}

	format, err := financial.DetectFormat(path)
	if err != nil {
		v.logger.Error("file is not a dataset",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return "", fmt.Errorf("file %s: %w", path, err)
	}
	return format, nil
}

// ValidateOutputDirectory ensures dir exists, creating it when needed, and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

// ExpandInputs resolves command-line inputs into dataset files. Directories
// contribute their CSV and spreadsheet files, sorted by name; files are
// validated as given.
func (v *FileValidator) ExpandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err == nil && info.IsDir() {
			found, err := v.datasetsIn(in)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				v.logger.Warn("no datasets found in directory", slog.String("directory", in))
			}
			files = append(files, found...)
			continue
		}

		if _, err := v.ValidateDataset(in); err != nil {
			return nil, err
		}
		files = append(files, in)
	}

	if len(files) == 0 {
		return nil, errors.New("no dataset files to process")
	}
	return files, nil
}

func (v *FileValidator) datasetsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if _, err := financial.DetectFormat(e.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	v.logger.Info("input directory scanned",
		slog.String("directory", dir),
		slog.Int("files_found", len(files)))
	return files, nil
}
