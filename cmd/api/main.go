package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/consulta-api/docs" // Swagger docs
	"github.com/sjperalta/consulta-api/internal/config"
	"github.com/sjperalta/consulta-api/internal/handlers"
	"github.com/sjperalta/consulta-api/internal/jobs"
	"github.com/sjperalta/consulta-api/internal/middleware"
	"github.com/sjperalta/consulta-api/internal/services"
	"github.com/sjperalta/consulta-api/internal/upstream"
	"github.com/sjperalta/consulta-api/pkg/logger"
	"github.com/sjperalta/consulta-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// @title Consulta API
// @version 1.0
// @description Natural-language questions over consumption and reception records, answered as French display tables

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	queryMetrics := metrics.NewQueryMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	// Analytics backend client
	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout)
	logger.Info("Analytics backend configured", "url", cfg.UpstreamURL, "timeout", cfg.UpstreamTimeout)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount, jobMetrics)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(client, queryMetrics)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, worker)

	// Setup router
	router := setupRouter(h, cfg, reg)

	// Create HTTP server. Writes wait for the backend, so they get its timeout on top.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, reg *prometheus.Registry) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		v1.POST("/query", h.Query.Ask)
		v1.POST("/query/:domain", h.Query.Ask)

		v1.POST("/exports", h.Query.Export)
		v1.POST("/exports/:domain", h.Query.Export)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Probe the analytics backend so /health reports its last known state
	if !worker.ScheduleEveryImmediate("upstream_health", cfg.HealthProbeInterval, func(ctx context.Context) error {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.UpstreamTimeout)
		defer cancel()
		return svcs.Health.Probe(probeCtx)
	}) {
		return
	}

	logger.Info("Scheduled recurring jobs", "health_probe_interval", cfg.HealthProbeInterval)
}
