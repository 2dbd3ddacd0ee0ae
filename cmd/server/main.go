package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	syncapp "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/infrastructure/cache"
	"github.com/parkops/backend/internal/infrastructure/config"
	"github.com/parkops/backend/internal/infrastructure/erpclient"
	"github.com/parkops/backend/internal/infrastructure/logger"
	"github.com/parkops/backend/internal/infrastructure/persistence"
	"github.com/parkops/backend/internal/infrastructure/scheduler"
	"github.com/parkops/backend/internal/infrastructure/vault"
	"github.com/parkops/backend/internal/interfaces/http/handler"
	"github.com/parkops/backend/internal/interfaces/http/middleware"
	"github.com/parkops/backend/internal/interfaces/http/router"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ParkOps Sync API
//	@version		1.0
//	@description	ERP synchronization subsystem for parking operations: connection credentials, field mappings, batch sync and scheduling.

//	@contact.name	API Support
//	@contact.url	https://github.com/parkops/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

const devErpBaseURL = "http://localhost:8090"

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

	log.Info("Starting ParkOps Sync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Credential vault. With no configured secret the vault falls back to a
	// derived development key and logs a warning.
	credentialVault, err := vault.New(cfg.Vault.SecretHex, log)
	if err != nil {
		log.Fatal("Failed to initialize credential vault", zap.Error(err))
	}

	// Remote ERP session client
	erpBaseURL := cfg.Erp.BaseURL
	if erpBaseURL == "" {
		erpBaseURL = devErpBaseURL
		log.Warn("erp.base_url not configured, using development default",
			zap.String("base_url", erpBaseURL),
		)
	}
	erpGateway, err := erpclient.NewSessionClient(erpclient.Config{
		BaseURL:        erpBaseURL,
		TimeoutSeconds: cfg.Erp.TimeoutSeconds,
		Version:        cfg.Erp.Version,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize ERP client", zap.Error(err))
	}

	// Initialize repositories
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	entityStore := persistence.NewGormEntityStore(db.DB)

	// Remote catalogue cache: Redis when available, in-process otherwise
	var catalogueCache syncapp.CatalogueCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		catalogueCache = cache.NewRedisCatalogueCacheWithClient(redisClient, cfg.Sync.CatalogueTTL, log)
		log.Info("Catalogue cache backed by Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Duration("ttl", cfg.Sync.CatalogueTTL),
		)
	} else {
		catalogueCache = cache.NewInMemoryCatalogueCache(cfg.Sync.CatalogueTTL)
		log.Info("Catalogue cache is in-process", zap.Duration("ttl", cfg.Sync.CatalogueTTL))
	}

	// Batch sync engine
	syncService := syncapp.NewSyncService(
		syncapp.Config{
			BatchSize:    cfg.Sync.BatchSize,
			FetchRetries: cfg.Sync.FetchRetries,
			RetryBackoff: cfg.Sync.RetryBackoff,
		},
		erpGateway,
		credentialVault,
		connectionRepo,
		integrationRepo,
		entityStore,
		catalogueCache,
		log,
	)

	// Sync scheduler (if enabled). InitializeAll runs from a deferred
	// goroutine so a slow database never blocks process startup.
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Scheduler.Enabled {
		syncScheduler, err = scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			Enabled:     cfg.Scheduler.Enabled,
			RunTimeout:  cfg.Scheduler.RunTimeout,
			InitTimeout: cfg.Scheduler.InitTimeout,
		}, syncService, integrationRepo, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := syncScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
		go func() {
			initCtx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.InitTimeout)
			defer cancel()
			if err := syncScheduler.InitializeAll(initCtx); err != nil {
				log.Error("Failed to load scheduled integrations", zap.Error(err))
			}
		}()
		log.Info("Sync scheduler started",
			zap.Duration("run_timeout", cfg.Scheduler.RunTimeout),
		)
	}

	// Initialize application services. The scheduler doubles as the
	// schedule registry so lifecycle changes keep timers in step.
	connectionService := syncapp.NewConnectionService(connectionRepo, credentialVault)
	var integrationService *syncapp.IntegrationService
	if syncScheduler != nil {
		integrationService = syncapp.NewIntegrationService(integrationRepo, connectionRepo, syncScheduler)
	} else {
		integrationService = syncapp.NewIntegrationService(integrationRepo, connectionRepo, nil)
	}

	// Initialize HTTP handlers
	connectionHandler := handler.NewConnectionHandler(connectionService)
	integrationHandler := handler.NewIntegrationHandler(integrationService)
	var syncHandler *handler.SyncHandler
	var systemHandler *handler.SystemHandler
	if syncScheduler != nil {
		syncHandler = handler.NewSyncHandler(syncService, syncScheduler)
		systemHandler = handler.NewSystemHandler(syncScheduler)
	} else {
		syncHandler = handler.NewSyncHandler(syncService, nil)
		systemHandler = handler.NewSystemHandler()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Sync domain (connections, integrations, runs)
	syncRoutes := router.NewDomainGroup("sync", "/sync")
	// Connection routes
	syncRoutes.POST("/connections", connectionHandler.Create)
	syncRoutes.GET("/connections", connectionHandler.List)
	syncRoutes.GET("/connections/:id", connectionHandler.GetByID)
	syncRoutes.PUT("/connections/:id", connectionHandler.Update)
	syncRoutes.DELETE("/connections/:id", connectionHandler.Delete)
	syncRoutes.GET("/connections/:id/catalogue", syncHandler.Catalogue)
	// Integration routes
	syncRoutes.POST("/integrations", integrationHandler.Create)
	syncRoutes.GET("/integrations", integrationHandler.List)
	syncRoutes.GET("/integrations/:id", integrationHandler.GetByID)
	syncRoutes.PUT("/integrations/:id", integrationHandler.Update)
	syncRoutes.DELETE("/integrations/:id", integrationHandler.Delete)
	syncRoutes.POST("/integrations/:id/activate", integrationHandler.Activate)
	syncRoutes.POST("/integrations/:id/deactivate", integrationHandler.Deactivate)
	// Sync run routes
	syncRoutes.POST("/runs/batch", syncHandler.RunBatch)
	syncRoutes.POST("/runs/full", syncHandler.RunFull)
	syncRoutes.POST("/records/:kind", syncHandler.ExportRecord)
	syncRoutes.GET("/scheduler/status", syncHandler.GetSchedulerStatus)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/ready", systemHandler.Readiness)

	r.Register(syncRoutes).Register(systemRoutes)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		stats, _ := db.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
			"pool": gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
				"max":    stats.MaxOpenConnections,
			},
		})
	}
}
