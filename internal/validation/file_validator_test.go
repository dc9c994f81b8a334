package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/shared/testutil"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestFileValidator_ValidateDataset(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T) string
		wantFormat    financial.Format
		errorContains string
	}{
		{
			name:       "csv",
			setup:      func(t *testing.T) string { return touch(t, t.TempDir(), "orders.csv") },
			wantFormat: financial.FormatCSV,
		},
		{
			name:       "spreadsheet upper-case extension",
			setup:      func(t *testing.T) string { return touch(t, t.TempDir(), "ORDERS.XLSX") },
			wantFormat: financial.FormatXLSX,
		},
		{
			name:          "missing",
			setup:         func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			errorContains: "does not exist",
		},
		{
			name:          "directory",
			setup:         func(t *testing.T) string { return t.TempDir() },
			errorContains: "is a directory",
		},
		{
			name:          "lock file",
			setup:         func(t *testing.T) string { return touch(t, t.TempDir(), "~$orders.xlsx") },
			errorContains: "temporary Excel file",
		},
		{
			name:          "unsupported extension",
			setup:         func(t *testing.T) string { return touch(t, t.TempDir(), "orders.pdf") },
			errorContains: "unsupported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			format, err := v.ValidateDataset(tt.setup(t))
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileValidator_ExpandInputs(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := t.TempDir()
	b := touch(t, dir, "b.xlsx")
	a := touch(t, dir, "a.csv")
	touch(t, dir, "~$a.xlsx")
	touch(t, dir, "notes.txt.bak")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	single := touch(t, t.TempDir(), "single.csv")

	files, err := v.ExpandInputs([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, single}, files)
	assert.True(t, handler.ContainsMessage("input directory scanned"))

	_, err = v.ExpandInputs([]string{t.TempDir()})
	assert.EqualError(t, err, "no dataset files to process")

	_, err = v.ExpandInputs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}
