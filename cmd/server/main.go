package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/codegen"
	"game-data-hub/internal/config"
	"game-data-hub/internal/controller"
	"game-data-hub/internal/logger"
	"game-data-hub/internal/metrics"
	"game-data-hub/internal/middleware"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/security"
	"game-data-hub/internal/service"
	"game-data-hub/internal/storage/blob"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LoggingConfig{}).WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	// Keep integer cell values exact
	binding.EnableDecoderUseNumber = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	store := repository.NewStore(db)

	// Initialize infrastructure
	schemas := cache.NewSchemaCache(cfg.Cache.SchemaTTL)
	schemas.Start(ctx)
	defer schemas.Stop()

	metrics.Init(prometheus.DefaultRegisterer)

	blobs, err := blob.Open(ctx, cfg.Export)
	if err != nil {
		log.WithError(err).Fatal("Failed to open export store")
	}

	// Initialize security
	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	authMiddleware := security.NewAuthMiddleware(jwtManager)

	// Initialize rate limiting
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPM:             cfg.Security.RateLimitPerMinute,
		Burst:           cfg.Security.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	})
	rateLimiter.Start(ctx)

	// Initialize services
	authService := service.NewAuthService(store, jwtManager, log)
	projectService := service.NewProjectService(store, schemas, log)
	tableService := service.NewTableService(store, schemas, log)
	dataService := service.NewDataService(store, schemas, log)
	versionService := service.NewVersionService(store, log)
	codegenService := service.NewCodeGenerationService(store, schemas, codegen.DefaultRegistry(), cfg.Codegen.MaxRows, log)
	exportService := service.NewExportService(codegenService, tableService, blobs, cfg.Export.Prefix, log)

	// Initialize controllers
	handlers := controller.Handlers{
		Auth:     controller.NewAuthController(authService),
		Projects: controller.NewProjectController(projectService),
		Tables:   controller.NewTableController(tableService),
		Data:     controller.NewDataController(dataService),
		Versions: controller.NewVersionController(versionService),
		Codegen:  controller.NewCodegenController(codegenService, exportService),
		Health:   controller.NewHealthController(store, schemas, blobs),
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Cors())
	router.Use(middleware.PrometheusMiddleware())

	// Add rate limiting if enabled
	if cfg.Security.EnableRateLimit {
		router.Use(rateLimiter.RateLimit())
	}

	// Operational endpoints (always available)
	router.GET("/health", handlers.Health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := authMiddleware.RequireAuth()
	if !cfg.Security.EnableAuth {
		log.Warn("Authentication disabled; endpoints that need a user will answer 401")
		requireAuth = authMiddleware.OptionalAuth()
	}
	controller.RegisterRoutes(router.Group("/api/v1"), handlers, requireAuth)

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}
