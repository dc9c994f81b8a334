package app

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/piyushmakhija5/ai-playground/internal/config"
	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/infrastructure"
)

// InitTelemetry starts OpenTelemetry from cfg and registers the business
// instruments. With telemetry disabled the instruments are no-ops.
func InitTelemetry(cfg *config.Config, logger *slog.Logger) (*infrastructure.OTelProviders, *infrastructure.BusinessMetrics, error) {
	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	meter := providers.Meter
	if meter == nil {
		meter = otel.Meter(infrastructure.MeterName)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(meter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return providers, metrics, nil
}

// NewSummarizer builds the pipeline from the pipeline config. metrics may be
// nil.
func NewSummarizer(cfg config.PipelineConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *financial.Summarizer {
	sc := financial.SummarizerConfig{
		CSVDateMode:         financial.DateMode(cfg.CSVDateMode),
		SpreadsheetDateMode: financial.DateMode(cfg.SpreadsheetDateMode),
		DateLayout:          cfg.DateLayout,
		SheetName:           cfg.SheetName,
		BatchConcurrency:    cfg.BatchConcurrency,
	}
	if metrics != nil {
		sc.Observer = metrics
	}
	return financial.NewSummarizer(logger, sc)
}
