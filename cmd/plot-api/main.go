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
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agri-shield/plot-portal/plot-portal-backend/internal/config"
	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/internal/landmap"
	"agri-shield/plot-portal/plot-portal-backend/internal/lands"
	"agri-shield/plot-portal/plot-portal-backend/internal/notifications/websocket"
	"agri-shield/plot-portal/plot-portal-backend/internal/plots"
	"agri-shield/plot-portal/plot-portal-backend/pkg/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Connect to database
	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.DBName))
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.MaxLifetime.Std())

	if err := lands.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Upstream services
	landmapClient := landmap.NewClient(cfg.Landmap.BaseURL, cfg.Landmap.Token, cfg.Landmap.AssetHost, cfg.Landmap.Timeout.Std(), logger)
	lamsClient := lams.NewClient(cfg.Lams.BaseURL, cfg.Lams.Token, cfg.Lams.Timeout.Std(), logger)

	// Land register
	landsService := lands.NewService(lands.NewRepository(db), logger)
	landsHandler := lands.NewHandler(landsService, logger)

	// Plot sessions
	wsManager := websocket.NewManager(logger)
	deps := plots.Dependencies{
		Resolver: landmapClient,
		Gateway:  lamsClient,
		Notifier: wsManager,
		Register: landsService,
	}
	if cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(context.Background(), storage.S3Options{
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Endpoint:        cfg.Storage.Endpoint,
		})
		if err != nil {
			logger.Fatal("Failed to create S3 client", zap.Error(err))
		}
		deps.Archiver = plots.NewS3Archiver(s3Client, cfg.Storage.Bucket, cfg.Storage.Prefix)
		logger.Info("Map archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	plotService := plots.NewService(deps, plots.Options{
		IdleTimeout:   cfg.Sessions.IdleTimeout.Std(),
		LocateTimeout: cfg.Tracking.LocateTimeout.Std(),
		FixMaxAge:     cfg.Tracking.FixMaxAge.Std(),
	}, logger)
	plotHandler := plots.NewHandler(plotService, wsManager, logger)

	sweeper := plots.NewSweeper(plotService, cfg.Sessions.SweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}

	// Setup Router
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		plotHandler.RegisterRoutes(api)
		landsHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
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

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	plotService.Shutdown()

	logger.Info("Server exiting")
}

func newLogger(level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
