package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/report"
)

// SummaryRequest is one uploaded dataset.
type SummaryRequest struct {
	CompanyName string
	Filename    string
	Body        io.Reader
}

// SummaryService turns uploaded datasets into labelled reports.
type SummaryService struct {
	summarizer *financial.Summarizer
	logger     *slog.Logger
}

// NewSummaryService creates a summary service backed by summarizer.
func NewSummaryService(summarizer *financial.Summarizer, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryService{
		summarizer: summarizer,
		logger:     logger.With(slog.String("service", "summary")),
	}
}

// Summarize loads the upload in the format implied by its filename. An
// unknown extension is reported as a *financial.LoadError wrapping
// financial.ErrUnsupportedFormat.
func (s *SummaryService) Summarize(ctx context.Context, req SummaryRequest) (*report.Report, error) {
	name := filepath.Base(req.Filename)

	format, err := financial.DetectFormat(name)
	if err != nil {
		return nil, &financial.LoadError{Path: name, Err: err}
	}

	res, err := s.summarizer.Summarize(ctx, req.Body, format)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "upload summarized",
		slog.String("company", req.CompanyName),
		slog.String("filename", name),
		slog.String("format", string(format)),
		slog.Int("orders", res.Summary.TotalOrders))

	r := report.New(req.CompanyName, name, res.Summary)
	return &r, nil
}
