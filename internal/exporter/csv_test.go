package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushmakhija5/ai-playground/internal/config"
)

func readCSV(t *testing.T, path string) ([]byte, [][]string) {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	return raw, records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(&config.PathsConfig{OutputDir: dir}, nil)

	tests := []struct {
		name     string
		file     string
		options  WriteOptions
		wantBOM  bool
		wantRows [][]string
	}{
		{
			name:     "headers and records",
			file:     "plain.csv",
			options:  WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}},
			wantRows: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:     "bom prefix",
			file:     "bom.csv",
			options:  WriteOptions{Headers: []string{"a"}, Records: [][]string{{"x,y"}}, BOMPrefix: true},
			wantBOM:  true,
			wantRows: [][]string{{"a"}, {"x,y"}},
		},
		{
			name:     "nested directory",
			file:     filepath.Join("nested", "deep", "out.csv"),
			options:  WriteOptions{Records: [][]string{{"only"}}},
			wantRows: [][]string{{"only"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.file, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.file), path)

			raw, records := readCSV(t, path)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
			assert.Equal(t, tt.wantRows, records)
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer := NewCSVWriter(&config.PathsConfig{OutputDir: t.TempDir()}, nil)

	path, err := writer.WriteSimpleCSV("log.csv", []string{"k", "v"}, [][]string{{"a", "1"}})
	require.NoError(t, err)
	_, err = writer.WriteCSV("log.csv", WriteOptions{Headers: []string{"ignored"}, Records: [][]string{{"b", "2"}}, Append: true})
	require.NoError(t, err)

	_, records := readCSV(t, path)
	assert.Equal(t, [][]string{{"k", "v"}, {"a", "1"}, {"b", "2"}}, records)
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer := NewCSVWriter(&config.PathsConfig{OutputDir: "unused"}, nil)
	abs := filepath.Join(t.TempDir(), "abs.csv")

	path, err := writer.WriteSimpleCSV(abs, []string{"h"}, nil)
	require.NoError(t, err)
	assert.Equal(t, abs, path)
}
