// Package app wires configuration, logging, telemetry, storage, the pipeline
// service and the HTTP surface into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"edulake/internal/config"
	"edulake/internal/infrastructure"
	customMiddleware "edulake/internal/middleware"
	"edulake/internal/pipeline"
	"edulake/internal/storage"
	handlers "edulake/internal/transport/http"
	ws "edulake/internal/websocket"
	"edulake/pkg/contracts"
)

// Application is the main application container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         storage.Store
	Hub           *ws.Hub
	Pipeline      *pipeline.Service
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger
}

// New builds the application from configuration.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	store, err := storage.New(context.Background(), cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	hub := ws.NewHub(logger)
	svc := pipeline.NewService(store, logger, hub, providers.Tracer, metrics)

	app := &Application{
		Config:        cfg,
		Store:         store,
		Hub:           hub,
		Pipeline:      svc,
		OTelProviders: providers,
		Logger:        logger,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (app *Application) buildRouter() *chi.Mux {
	cfg := app.Config
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(app.Logger))
	r.Use(customMiddleware.Recoverer(app.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(customMiddleware.Compress(5))

	rateLimiter := customMiddleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", handlers.NewHealthHandler(contracts.Version).Routes())

		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Handler)
			r.Mount("/pipeline", handlers.NewPipelineHandler(app.Pipeline, app.Config.ResolveIngestDate, app.Logger).Routes())
		})
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(app.Hub, w, req, app.Logger)
	})

	r.Handle("/metrics", app.OTelProviders.PrometheusHTTP)

	return r
}

// Run starts the hub and HTTP server, blocking until the context is cancelled
// or a shutdown signal arrives.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Hub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("server starting",
			slog.String("addr", app.Server.Addr),
			slog.String("storage_mode", app.Config.Storage.Mode))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

func (app *Application) shutdown() error {
	app.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := app.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("server shutdown failed: %w", err)
	}

	app.Hub.Stop()

	if err := app.OTelProviders.Shutdown(ctx); err != nil {
		app.Logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// RunOnce executes a single pipeline run without starting the HTTP server.
// Used by the batch entrypoint.
func (app *Application) RunOnce(ctx context.Context) (*pipeline.Summary, error) {
	app.Hub.Start()
	defer app.Hub.Stop()

	start := time.Now()
	summary, err := app.Pipeline.Run(ctx, app.Config.ResolveIngestDate())
	if err != nil {
		return nil, err
	}

	app.Logger.Info("batch run finished", slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}
