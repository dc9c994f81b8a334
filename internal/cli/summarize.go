package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piyushmakhija5/ai-playground/internal/app"
	"github.com/piyushmakhija5/ai-playground/internal/exporter"
	"github.com/piyushmakhija5/ai-playground/internal/report"
	"github.com/piyushmakhija5/ai-playground/internal/validation"
)

var outputFormats = []string{"json", "markdown", "html", "prompt"}

type summarizeOptions struct {
	company      string
	format       string
	output       string
	exportFormat string
}

func newSummarizeCommand(e *env) *cobra.Command {
	o := &summarizeOptions{}

	cmd := &cobra.Command{
		Use:     "summarize [file|dir]...",
		Aliases: []string{"sum"},
		Short:   "Summarize one or more order exports",
		Long: `Summarize reads CSV or spreadsheet order exports and prints the metric
summary. Directories contribute every CSV and spreadsheet they contain.

Without arguments the file path is asked for interactively, and so is the
company name when --company is not given.

With --output the summary is exported instead of printed. A single input is
written to that path, its extension picking the format (csv, xlsx, json, md,
html). Several inputs treat --output as a directory and use --export-format.
Relative paths resolve under paths.output_dir.`,
		Example: `  underwriter summarize orders.csv --company "Acme Retail"
  underwriter summarize exports/ --format markdown
  underwriter summarize orders.xlsx -o acme.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runSummarize(cmd, o, args)
		},
	}

	cmd.Flags().StringVarP(&o.company, "company", "c", "", "company name to label the summary with")
	cmd.Flags().StringVarP(&o.format, "format", "f", "json", "stdout format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "export file, or directory for several inputs")
	cmd.Flags().StringVar(&o.exportFormat, "export-format", "json", "file extension used for batch exports")
	return cmd
}

func (e *env) runSummarize(cmd *cobra.Command, o *summarizeOptions, args []string) error {
	if !slices.Contains(outputFormats, o.format) {
		return fmt.Errorf("invalid --format %q: want one of %s", o.format, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(exporter.SupportedExtensions(), "."+strings.TrimPrefix(o.exportFormat, ".")) {
		return fmt.Errorf("invalid --export-format %q", o.exportFormat)
	}

	validator := validation.NewFileValidator(e.logger)

	if len(args) == 0 {
		path, err := e.prompter.Ask("Upload Excel file path", func(s string) error {
			_, err := validator.ValidateDataset(strings.TrimSpace(s))
			return err
		})
		if err != nil {
			return fmt.Errorf("dataset path: %w", err)
		}
		args = []string{strings.TrimSpace(path)}
	}

	company := strings.TrimSpace(o.company)
	if company == "" && !cmd.Flags().Changed("company") {
		answer, err := e.prompter.Ask("Company Name", func(string) error { return nil })
		switch {
		case errors.Is(err, ErrNotInteractive):
		case err != nil:
			return fmt.Errorf("company name: %w", err)
		default:
			company = strings.TrimSpace(answer)
		}
	}

	files, err := validator.ExpandInputs(args)
	if err != nil {
		return err
	}

	summarizer := app.NewSummarizer(e.cfg.Pipeline, e.metrics, e.logger)
	results, err := summarizer.SummarizeBatch(cmd.Context(), files)
	if err != nil {
		return err
	}

	exp := exporter.NewSummaryExporter(&e.cfg.Paths, e.logger)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(errOut, "error: %v\n", res.Err)
			continue
		}
		rep := report.New(company, filepath.Base(res.Path), res.Result.Summary)

		if o.output != "" {
			target := o.output
			if len(files) > 1 {
				target = filepath.Join(o.output, stem(res.Path)+"."+strings.TrimPrefix(o.exportFormat, "."))
			}
			written, err := exp.Export(target, rep)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", written)
			continue
		}

		body, err := render(o.format, rep)
		if err != nil {
			return err
		}
		if len(files) > 1 {
			fmt.Fprintf(out, "== %s ==\n", res.Path)
		}
		fmt.Fprintln(out, body)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d datasets could not be summarized", failed, len(results))
	}
	return nil
}

func render(format string, r report.Report) (string, error) {
	switch format {
	case "markdown":
		return report.Markdown(r), nil
	case "html":
		return report.HTML(r)
	case "prompt":
		return report.PromptJSON(r.Summary)
	default:
		return report.SummaryJSON(r.Summary)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
