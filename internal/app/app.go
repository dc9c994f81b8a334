package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/piyushmakhija5/ai-playground/internal/config"
	apierrors "github.com/piyushmakhija5/ai-playground/internal/errors"
	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/infrastructure"
	custommw "github.com/piyushmakhija5/ai-playground/internal/middleware"
	"github.com/piyushmakhija5/ai-playground/internal/services"
	handlers "github.com/piyushmakhija5/ai-playground/internal/transport/http"
	"github.com/piyushmakhija5/ai-playground/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	Summarizer     *financial.Summarizer
	SummaryService *services.SummaryService
	HealthService  *services.HealthService
	ErrorHandler   *apierrors.ErrorHandler
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port))

	providers, metrics, err := InitTelemetry(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}
	a.initializeServices()
	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) initializeServices() {
	a.Summarizer = NewSummarizer(a.Config.Pipeline, a.Metrics, a.Logger)
	a.SummaryService = services.NewSummaryService(a.Summarizer, a.Logger)
	a.HealthService = services.NewHealthService(a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(middleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → headers → limits
		r.Use(custommw.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.ErrorHandler))
		r.Use(custommw.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(custommw.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus scrape endpoint stays outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)

		r.Route("/v1", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(a.SummaryService, a.Config.Pipeline.MaxUploadBytes, a.Logger, a.ErrorHandler)
			r.Mount("/summaries", summaryHandler.Routes())
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start begins serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting HTTP server",
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("received shutdown signal")
	return a.Stop(ctx)
}
