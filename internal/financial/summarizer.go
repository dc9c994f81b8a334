package financial

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/piyushmakhija5/ai-playground/internal/financial"

// Observer receives one call per summarization attempt.
type Observer interface {
	ObserveSummary(ctx context.Context, format Format, rows int, elapsed time.Duration, err error)
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	CSVDateMode         DateMode // strict unless set
	SpreadsheetDateMode DateMode // loose unless set
	DateLayout          string   // Go layout for the Order Date column
	SheetName           string   // spreadsheet sheet; first sheet when empty
	BatchConcurrency    int      // parallel files in SummarizeBatch
	Observer            Observer
}

// Result is the outcome of summarizing one input.
type Result struct {
	Source  string         `json:"source,omitempty"`
	Format  Format         `json:"format"`
	Summary Summary        `json:"summary"`
	Stats   NormalizeStats `json:"-"`
}

// BatchResult pairs an input path with its result or load failure.
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// Summarizer runs the full pipeline. It holds no per-call state and is safe
// for concurrent use.
type Summarizer struct {
	logger *slog.Logger
	loader *Loader
	tracer trace.Tracer
	config SummarizerConfig
}

// NewSummarizer creates a summarizer with defaults applied.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.CSVDateMode == "" {
		config.CSVDateMode = DateStrict
	}
	if config.SpreadsheetDateMode == "" {
		config.SpreadsheetDateMode = DateLoose
	}
	if config.DateLayout == "" {
		config.DateLayout = DefaultDateLayout
	}
	if config.BatchConcurrency <= 0 {
		config.BatchConcurrency = 4
	}

	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		loader: NewLoader(logger, LoaderConfig{SheetName: config.SheetName}),
		tracer: otel.Tracer(tracerName),
		config: config,
	}
}

// SummarizeFile loads and summarizes the file at path.
func (s *Summarizer) SummarizeFile(ctx context.Context, path string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "financial.SummarizeFile",
		trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	start := time.Now()
	format, _ := DetectFormat(path)
	table, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		s.fail(ctx, span, format, start, err)
		return nil, err
	}

	result := s.summarizeTable(ctx, span, table, format, start)
	result.Source = path
	return result, nil
}

// Summarize reads r in the given format and summarizes it.
func (s *Summarizer) Summarize(ctx context.Context, r io.Reader, format Format) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "financial.Summarize",
		trace.WithAttributes(attribute.String("input.format", string(format))))
	defer span.End()

	start := time.Now()
	table, err := s.loader.Load(ctx, r, format)
	if err != nil {
		s.fail(ctx, span, format, start, err)
		return nil, err
	}
	return s.summarizeTable(ctx, span, table, format, start), nil
}

// SummarizeTable runs the stages after loading. It cannot fail.
func (s *Summarizer) SummarizeTable(ctx context.Context, table *Table, format Format) *Result {
	ctx, span := s.tracer.Start(ctx, "financial.SummarizeTable")
	defer span.End()
	return s.summarizeTable(ctx, span, table, format, time.Now())
}

// SummarizeBatch summarizes several files in parallel. Per-file load errors
// are reported in the results; the returned error is non-nil only when ctx
// is cancelled.
func (s *Summarizer) SummarizeBatch(ctx context.Context, paths []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.SummarizeFile(gctx, path)
			results[i] = BatchResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (s *Summarizer) summarizeTable(ctx context.Context, span trace.Span, table *Table, format Format, start time.Time) *Result {
	orders, presence, stats := Normalize(table, NormalizeOptions{
		DateMode:   s.dateMode(format),
		DateLayout: s.config.DateLayout,
	})
	Derive(orders, presence)
	summary := Aggregate(orders, presence)

	if stats.CoercedCells > 0 || stats.NullDates > 0 {
		s.logger.DebugContext(ctx, "recovered data-quality anomalies",
			slog.Int("coerced_cells", stats.CoercedCells),
			slog.Int("null_dates", stats.NullDates))
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("rows", stats.Rows),
		attribute.Int("months", len(summary.OrdersPerMonth)),
	)
	if s.config.Observer != nil {
		s.config.Observer.ObserveSummary(ctx, format, stats.Rows, elapsed, nil)
	}

	s.logger.InfoContext(ctx, "summary generated",
		slog.String("format", string(format)),
		slog.Int("rows", stats.Rows),
		slog.Float64("net_sales", summary.TotalNetSales),
		slog.Duration("elapsed", elapsed))

	return &Result{Format: format, Summary: summary, Stats: stats}
}

func (s *Summarizer) fail(ctx context.Context, span trace.Span, format Format, start time.Time, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.config.Observer != nil {
		s.config.Observer.ObserveSummary(ctx, format, 0, time.Since(start), err)
	}
	s.logger.ErrorContext(ctx, "failed to load input", slog.String("error", err.Error()))
}

func (s *Summarizer) dateMode(format Format) DateMode {
	if format == FormatXLSX {
		return s.config.SpreadsheetDateMode
	}
	return s.config.CSVDateMode
}
