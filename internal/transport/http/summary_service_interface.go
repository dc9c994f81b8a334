package http

import (
	"context"

	"github.com/piyushmakhija5/ai-playground/internal/report"
	"github.com/piyushmakhija5/ai-playground/internal/services"
)

// SummaryServiceInterface defines the summarization operations the handler needs
type SummaryServiceInterface interface {
	Summarize(ctx context.Context, req services.SummaryRequest) (*report.Report, error)
}
