package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleph-zero/mineescape/api"
	"github.com/aleph-zero/mineescape/service/escape"
	"github.com/aleph-zero/mineescape/service/identity"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/aleph-zero/mineescape/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/riandyrn/otelchi"
)

const (
	serviceName    = "mineescape"
	serviceVersion = "0.0.1"
)

/* *** Server Config *** */

type Config struct {
	Address        string
	Port           uint16
	LogLevel       slog.Level
	EscapeConfig   *escape.Config
	RunstoreConfig *runstore.Config
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{
		LogLevel:       slog.LevelInfo,
		EscapeConfig:   escape.NewConfig(),
		RunstoreConfig: runstore.NewConfig(),
	}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithAddress(address string) Option {
	return func(c *Config) {
		c.Address = address
	}
}

func WithPort(port uint16) Option {
	return func(c *Config) {
		c.Port = port
	}
}

func WithLogLevel(level slog.Level) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func WithEscapeConfig(escapeConfig *escape.Config) Option {
	return func(c *Config) {
		c.EscapeConfig = escapeConfig
	}
}

func WithRunstoreConfig(runstoreConfig *runstore.Config) Option {
	return func(c *Config) {
		c.RunstoreConfig = runstoreConfig
	}
}

// NewRouter wires the identity, escape and runs APIs onto a chi router.
func NewRouter(logger *httplog.Logger, identitySvc identity.Service, escapeSvc escape.Service, runSvc runstore.Service) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Heartbeat("/heartbeat"))
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.RequestID)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(httplog.RequestLogger(logger))

	{
		handler := api.NewIdentityHandler(identitySvc)
		router.Get("/identity", handler.GetIdentity)
	}
	{
		handler := api.NewEscapeHandler(escapeSvc)
		router.Post("/escape", handler.Solve)
	}
	{
		handler := api.NewRunsHandler(runSvc)
		router.Route("/runs", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Route("/{run}", func(r chi.Router) {
				r.Use(handler.RunContext)
				r.Get("/", handler.Get)
			})
		})
	}
	return router
}

func Bootstrap(config *Config) {
	ctx := context.Background()
	logger := httplog.NewLogger(serviceName, httplog.Options{
		LogLevel:         config.LogLevel,
		MessageFieldName: "msg",
		JSON:             true,
		Concise:          true,
		RequestHeaders:   false,
		ResponseHeaders:  false,
	})

	logger.InfoContext(ctx, "Bootstrapping server...", "address", config.Address, "port", config.Port,
		"directory", config.RunstoreConfig.Directory)

	/* *** Initialize Opentelemetry *** */
	shutdownTelemetry, err := telemetry.New(serviceName, serviceVersion, telemetry.CollectorURL)
	if err != nil {
		logger.ErrorContext(ctx, "Error initializing telemetry", "err", err)
		shutdownTelemetry = func() {}
	}
	defer shutdownTelemetry()

	/* *** Initialize services and inject them into the api routes *** */
	runSvc := runstore.NewService(config.RunstoreConfig.Directory)
	if err := runSvc.Open(); err != nil {
		logger.ErrorContext(ctx, "Error opening run store", "err", err)
		os.Exit(1)
	}

	escapeSvc, err := escape.NewService(config.EscapeConfig, runSvc)
	if err != nil {
		logger.ErrorContext(ctx, "Error creating escape service", "err", err)
		os.Exit(1)
	}

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler: NewRouter(logger,
			identity.NewService(serviceName, serviceVersion, config.Address, config.Port), escapeSvc, runSvc),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Error starting server", "err", err)
		}
		logger.InfoContext(ctx, "Server stopped accepting connections")
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-sig

	shutdownCtx, shutdown := context.WithTimeout(ctx, 10*time.Second)
	defer shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Error shutting down server", "err", err)
		os.Exit(1)
	}
	if err := runSvc.Persist(); err != nil {
		logger.ErrorContext(ctx, "Error persisting run store", "err", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Server shutdown complete")
}
