package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tickerlens/internal/catalog"
	"tickerlens/internal/config"
	apierrors "tickerlens/internal/errors"
	"tickerlens/internal/infrastructure"
	custommw "tickerlens/internal/middleware"
	"tickerlens/internal/services"
	handlers "tickerlens/internal/transport/http"
)

// Version is overridable at build time with -ldflags.
var Version = "dev"

// Application is the composed server: config, logger, metrics, catalog store,
// resolve service, and the HTTP surface on top of them.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Store   *catalog.Store
	Service *services.ResolveService
	Router  *chi.Mux
	Server  *http.Server
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig builds the application from an explicit config,
// bypassing file and environment loading.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("universe_file", cfg.Paths.UniverseFile),
	)

	metrics := infrastructure.NewMetrics()

	store := catalog.NewStore(catalog.Sources{
		UniverseFile:      cfg.Paths.UniverseFile,
		BroadUniverseFile: cfg.Paths.BroadUniverseFile,
		NameMapFile:       cfg.Paths.NameMapFile,
		CacheFile:         cfg.Paths.CacheFile,
		Overrides:         catalog.DefaultOverrides(),
		MaxAliases:        cfg.Resolver.MaxAliases,
	}, logger)

	service := services.NewResolveService(store, cfg.Resolver, metrics, logger)

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Store:   store,
		Service: service,
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter configures the HTTP router and middleware chain.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Metrics(a.Metrics))
	r.Use(custommw.RateLimiter(a.Config.Server.RateLimit))

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(a.Config.Server.ReadTimeout))

		r.Mount("/resolve", handlers.NewResolveHandler(a.Service, a.Logger, errorHandler).Routes())
		r.Mount("/catalog", handlers.NewCatalogHandler(a.Service, a.Logger, errorHandler).Routes())
		r.Mount("/health", handlers.NewHealthHandler(a.Service, Version).Routes())
	})

	// Outside the middleware group so scrapes stay cheap.
	r.Handle("/metrics", promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server, warms the catalog, and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the catalog so the first query does not pay the build cost. A
	// configuration error here is fatal; the operator must fix the inputs.
	if _, err := a.Store.Snapshot(ctx); err != nil {
		return fmt.Errorf("catalog warm-up: %w", err)
	}
	if snap := a.Store.Current(); snap != nil {
		a.Logger.Info("catalog ready",
			slog.Int("tickers", snap.Universe.Len()),
			slog.Int("aliases", snap.Index.Len()),
			slog.Bool("from_cache", snap.FromCache),
		)
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("shutdown complete")
	return nil
}
