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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/banking"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/compliance"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/config"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/database"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/metrics"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/middleware"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/pooling"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize logger
	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Connect to database
	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrationsEnabled {
		if err := database.Migrate(db, cfg.Database.DBName, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Ship lock: always in-process, across replicas when Redis is configured
	var locker banking.Locker = banking.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		locker = banking.Chain(locker, banking.NewRedisLocker(rdb, cfg.Redis.LockTTL, logger))
		logger.Info("Distributed ship lock enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize modules
	bankingRepo := banking.NewPostgresRepository(db)

	complianceRepo := compliance.NewRepository(db)
	calculator := compliance.NewCalculator(cfg.Compliance.TargetIntensity, cfg.Compliance.ConversionFactor)
	complianceService := compliance.NewService(complianceRepo, calculator, banking.NewLedger(bankingRepo), logger)
	complianceHandler := compliance.NewHandler(complianceService, logger)

	bankingService := banking.NewService(bankingRepo, locker, complianceService, logger)
	bankingHandler := banking.NewHandler(bankingService, logger)

	poolingRepo := pooling.NewRepository(db)
	poolingService := pooling.NewService(poolingRepo, logger)
	poolingHandler := pooling.NewHandler(poolingService, logger)

	auditor := banking.NewAuditor(bankingRepo, cfg.Banking.AuditSchedule, logger)
	if err := auditor.Start(); err != nil {
		logger.Fatal("Failed to start ledger audit", zap.Error(err))
	}
	defer auditor.Stop()

	// Setup Router
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(),
		middleware.Logger(logger),
		metrics.Middleware(),
	)

	// Register Routes
	api := router.Group("/api/v1")
	{
		complianceHandler.RegisterRoutes(api)
		bankingHandler.RegisterRoutes(api)
		poolingHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(level); perr == nil {
			cfg.Level = lvl
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
