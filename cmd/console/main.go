package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/infrastructure/api"
	"github.com/erp/console/internal/infrastructure/config"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/infrastructure/metrics"
	"github.com/erp/console/internal/infrastructure/telemetry"
	"github.com/erp/console/internal/interfaces/http/handler"
	"github.com/erp/console/internal/interfaces/http/middleware"
	"github.com/erp/console/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting warehouse console",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	registry := metrics.NewRegistry()

	// Backend clients
	client, err := api.NewClient(api.Config{
		BaseURL:   cfg.Backend.BaseURL,
		UserAgent: cfg.Backend.UserAgent,
		Observer:  registry,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}
	products := api.NewProductClient(client)
	shelves := api.NewShelfClient(client)
	robots := api.NewRobotClient(client)

	// Every session gets its own shell, built from the same factory
	factory := console.NewFactory(console.Deps{
		Products:    products,
		Shelves:     shelves,
		Robots:      robots,
		PageSize:    cfg.Backend.PageSize,
		RobotSample: cfg.Backend.DashboardRobotSample,
		BackendURL:  client.BaseURL(),
		Logger:      log,
		Alerts:      registry,
	})
	sessions := console.NewSessions(console.SessionsConfig{
		IdleTTL:  cfg.Session.IdleTTL,
		NewShell: func() *console.Shell { return console.NewShell(factory) },
		Observer: registry,
		Logger:   log,
	})
	sessions.StartJanitor(cfg.Session.SweepInterval)
	defer sessions.Close()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	tmpl, err := handler.Templates()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}
	engine.SetHTMLTemplate(tmpl)

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Start the server span so request logs carry its trace id
	// 3. Logger - Log requests
	// 4. Recovery - Catch panics
	// 5. Metrics - Count pages by route
	// 6. Security - Add security headers
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(registry.GinMiddleware())
	engine.Use(middleware.Secure())

	// Health and metrics stay outside the session middleware
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, client.BaseURL(), sessions)
	engine.GET("/healthz", systemHandler.Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(registry.Handler()))
	}

	limits := handler.Limits{Body: cfg.HTTP.MaxBodySize, Upload: cfg.HTTP.MaxUploadSize}
	router.NewRouter(engine, router.WithMiddleware(
		middleware.NoStore(),
		middleware.Session(sessions, middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.SecureCookie,
		}),
		middleware.SpanAttributes(),
	)).
		Register(handler.NewDashboardHandler()).
		Register(handler.NewProductHandler(limits)).
		Register(handler.NewShelfHandler(limits)).
		Register(handler.NewRobotHandler(limits)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           cfg.App.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
