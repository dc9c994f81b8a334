package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/piyushmakhija5/ai-playground/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// NewHealthService creates a new health service
func NewHealthService(logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
	hs.logger.DebugContext(ctx, "health check", slog.String("uptime", status.Uptime))
	return status
}

// Version returns build information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}
