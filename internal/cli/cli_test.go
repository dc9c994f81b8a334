package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushmakhija5/ai-playground/internal/shared/testutil"
	"github.com/piyushmakhija5/ai-playground/pkg/contracts"
)

// fakePrompter answers prompts by label and records what was asked.
type fakePrompter struct {
	answers map[string]string
	err     error
	asked   []string
}

func (p *fakePrompter) Ask(label string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, label)
	if p.err != nil {
		return "", p.err
	}
	answer := p.answers[label]
	if err := validate(answer); err != nil {
		return "", err
	}
	return answer, nil
}

// writeConfig writes a quiet config whose output_dir is a fresh temp dir.
func writeConfig(t *testing.T) (cfgPath, outDir string) {
	t.Helper()
	outDir = t.TempDir()
	cfgPath = testutil.WriteFile(t, "config.yaml", "telemetry:\n  enabled: false\npaths:\n  output_dir: "+outDir+"\n")
	return cfgPath, outDir
}

func run(t *testing.T, p Prompter, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(WithPrompter(p))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSummarize_JSONToStdout(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)
	prompter := &fakePrompter{}

	stdout, _, err := run(t, prompter, "--config", cfg, "summarize", dataset, "--company", "Acme")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, float64(3), got["Total Orders"])
	assert.Equal(t, 3000.0, got["Total Net Sales Excl Gst (INR)"])
	assert.Empty(t, prompter.asked, "explicit flags must not prompt")
}

func TestSummarize_Markdown(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)

	stdout, _, err := run(t, &fakePrompter{}, "--config", cfg, "sum", dataset, "-c", "Acme", "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Financial Summary: Acme")
	assert.Contains(t, stdout, "## Monthly Breakdown")
}

func TestSummarize_PromptsWhenNoArgs(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)
	prompter := &fakePrompter{answers: map[string]string{
		"Upload Excel file path": "  " + dataset + " ",
		"Company Name":           "Prompted Co",
	}}

	stdout, _, err := run(t, prompter, "--config", cfg, "summarize", "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, []string{"Upload Excel file path", "Company Name"}, prompter.asked)
	assert.Contains(t, stdout, "# Financial Summary: Prompted Co")
}

func TestSummarize_NotInteractive(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)
	prompter := &fakePrompter{err: ErrNotInteractive}

	t.Run("missing path fails", func(t *testing.T) {
		_, _, err := run(t, prompter, "--config", cfg, "summarize")
		assert.ErrorIs(t, err, ErrNotInteractive)
	})

	t.Run("missing company is left blank", func(t *testing.T) {
		stdout, _, err := run(t, prompter, "--config", cfg, "summarize", dataset, "-f", "markdown")
		require.NoError(t, err)
		assert.Contains(t, stdout, "# Financial Summary\n")
	})
}

func TestSummarize_ExportSingle(t *testing.T) {
	cfg, outDir := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)

	stdout, _, err := run(t, &fakePrompter{}, "--config", cfg, "summarize", dataset, "-c", "Acme", "-o", "acme.xlsx")
	require.NoError(t, err)

	want := filepath.Join(outDir, "acme.xlsx")
	assert.Equal(t, "wrote "+want+"\n", stdout)
	assert.FileExists(t, want)
}

func TestSummarize_Batch(t *testing.T) {
	cfg, outDir := writeConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(testutil.SampleOrdersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte(testutil.SampleOrdersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("x"), 0o644))

	t.Run("stdout with headers", func(t *testing.T) {
		stdout, _, err := run(t, &fakePrompter{}, "--config", cfg, "summarize", dir, "-c", "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "== "+filepath.Join(dir, "a.csv")+" ==")
		assert.Contains(t, stdout, "== "+filepath.Join(dir, "b.csv")+" ==")
		assert.NotContains(t, stdout, "notes.pdf")
	})

	t.Run("export directory", func(t *testing.T) {
		_, _, err := run(t, &fakePrompter{}, "--config", cfg, "summarize", dir, "-c", "", "-o", "batch", "--export-format", "md")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(outDir, "batch", "a.md"))
		assert.FileExists(t, filepath.Join(outDir, "batch", "b.md"))
	})
}

func TestSummarize_PartialFailure(t *testing.T) {
	cfg, _ := writeConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.csv"), []byte(testutil.SampleOrdersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))

	stdout, stderr, err := run(t, &fakePrompter{}, "--config", cfg, "summarize", dir, "-c", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 datasets")
	assert.Contains(t, stderr, "empty.csv")
	assert.Contains(t, stdout, "good.csv")
}

func TestSummarize_InvalidFlags(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.csv", testutil.SampleOrdersCSV)

	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"-f", "yaml"}},
		{"export format", []string{"--export-format", "pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "summarize", dataset, "-c", ""}, tt.args...)
			_, _, err := run(t, &fakePrompter{}, args...)
			assert.Error(t, err)
		})
	}
}

func TestSummarize_UnsupportedInput(t *testing.T) {
	cfg, _ := writeConfig(t)
	dataset := testutil.WriteFile(t, "orders.pdf", "x")

	_, _, err := run(t, &fakePrompter{}, "--config", cfg, "summarize", dataset, "-c", "")
	assert.Error(t, err)
}

func TestSummarize_MissingConfig(t *testing.T) {
	_, _, err := run(t, &fakePrompter{err: errors.New("unused")}, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "summarize", "x.csv")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, &fakePrompter{}, "version")
	require.NoError(t, err)
	assert.Equal(t, contracts.GetFullVersionString()+"\n", stdout)

	stdout, _, err = run(t, &fakePrompter{}, "version", "--json")
	require.NoError(t, err)
	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, contracts.Version, info.Version)
}
