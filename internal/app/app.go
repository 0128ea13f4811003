package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/infrastructure"
	customMiddleware "salespulse/internal/middleware"
	"salespulse/internal/services"
	handlers "salespulse/internal/transport/http"
	ws "salespulse/internal/websocket"
	"salespulse/pkg/contracts"
)

// AppName is shown in logs and the CLI banner
const AppName = "SalesPulse"

// compressionLevel is the gzip level for API and page responses
const compressionLevel = 5

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	Cache         dataset.Cache
	WebSocketHub  *ws.Hub
	Dashboard     *services.DashboardService
	HealthService *services.HealthService

	errorHandler *apierrors.ErrorHandler
}

// NewApplication loads configuration, initializes logging and wires the
// application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from an explicit configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// NewCache builds the dataset cache the configuration asks for
func NewCache(cfg config.CacheConfig) dataset.Cache {
	if !cfg.Enabled {
		return dataset.NopCache{}
	}
	return dataset.NewMemoryCache(cfg.MaxEntries)
}

// NewDashboardService wires the load → validate → compute pipeline. It is
// shared by the server and the report command.
func NewDashboardService(cfg *config.Config, dataDir string, cache dataset.Cache, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *services.DashboardService {
	loader := dataset.NewLoader(cache, logger, dataset.WithMetrics(metrics))
	return services.NewDashboardService(loader, dataDir, cfg.Dashboard, logger,
		services.WithDashboardMetrics(metrics))
}

func (a *Application) initializeServices() {
	a.Cache = NewCache(a.Config.Cache)

	a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)

	a.Dashboard = NewDashboardService(a.Config, a.Paths.DataDir, a.Cache, a.Metrics, a.Logger)

	a.HealthService = services.NewHealthService(
		contracts.Version,
		contracts.BuildTime,
		a.Paths.DataDir,
		a.Cache,
		a.WebSocketHub,
		a.Logger,
	)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// These do not wrap the ResponseWriter, so the WebSocket upgrade is safe
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(apierrors.RecoveryMiddleware(a.errorHandler))

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger, a.errorHandler)
	r.Handle(config.WebSocketEndpoint, wsHandler)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → SecurityHeaders → Compress → CORS → RateLimit
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(compressionLevel))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		r.Get("/", handlers.ServeDashboardPage(a.Dashboard, a.Logger))
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidator(a.Logger)

	health := handlers.NewHealthHandler(a.HealthService, a.Logger)
	dashboard := handlers.NewDashboardHandler(a.Dashboard, validator, a.Metrics, a.Logger, a.errorHandler)
	datasets := handlers.NewDatasetHandler(a.Dashboard, a.WebSocketHub, a.Paths.DataDir, a.Logger, a.errorHandler)
	clientLog := handlers.NewClientLogHandler(validator, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Group(func(r chi.Router) {
			r.Get("/health", health.HealthCheck)
			r.Get("/health/live", health.LivenessCheck)
			r.Get("/health/ready", health.ReadinessCheck)
			r.Get("/version", health.Version)
			r.Post("/client-log", clientLog.Handle)
		})

		r.Mount("/dashboard", dashboard.Routes())
		r.Mount("/datasets", datasets.Routes())
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

// Start starts the hub and begins serving on listener in the background.
// Serve errors other than a normal shutdown are sent on the returned channel.
func (a *Application) Start(ctx context.Context, listener net.Listener) <-chan error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", listener.Addr().String()),
		slog.String("data_dir", a.Paths.DataDir))

	for _, st := range a.Dashboard.Datasets(ctx) {
		if st.Required && !st.Present {
			a.Logger.WarnContext(ctx, "Required dataset missing; upload it or place it in the data directory",
				slog.String("dataset", string(st.Dataset)),
				slog.String("path", st.Path))
		}
	}

	a.WebSocketHub.Start()

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// hijacked WebSocket connections are not closed by Shutdown
	a.WebSocketHub.Stop()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	errCh := a.Start(ctx, listener)
	a.Logger.InfoContext(ctx, "Application started",
		slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Received shutdown signal")
	case serveErr = <-errCh:
		a.Logger.ErrorContext(ctx, "Server error", slog.String("error", serveErr.Error()))
	}

	if err := a.Stop(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return serveErr
}
