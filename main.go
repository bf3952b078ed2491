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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sayyidkhan/vibewater-associates/config"
	"github.com/sayyidkhan/vibewater-associates/internal/handlers"
	"github.com/sayyidkhan/vibewater-associates/internal/logger"
	"github.com/sayyidkhan/vibewater-associates/internal/models"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/pipeline"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/price"
	"github.com/sayyidkhan/vibewater-associates/internal/repositories"
)

func main() {
	logger.Init("backtest-api")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	// Setup database
	db, err := setupDatabase(cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}

	// Initialize repositories
	strategyRepo := repositories.NewStrategyRepository(db)
	backtestRepo := repositories.NewBacktestRepository(db)

	// Initialize price source and pipeline
	fetcher := price.NewBinanceFetcher(cfg.Exchange.APIKey, cfg.Exchange.SecretKey)
	pipe := pipeline.New()

	// Initialize handlers
	strategyHandler := handlers.NewStrategyHandler(strategyRepo, pipe)
	backtestHandler := handlers.NewBacktestHandler(pipe, fetcher, backtestRepo, strategyRepo, cfg.Backtest)
	researchHandler := handlers.NewResearchHandler(pipe, fetcher, cfg.Research, cfg.Backtest)
	progressSocket := handlers.NewProgressSocket(pipe, fetcher, cfg.Backtest)

	router := gin.Default()
	api := router.Group("/api")
	{
		api.POST("/strategies", strategyHandler.Create)
		api.GET("/strategies", strategyHandler.List)
		api.GET("/strategies/:id", strategyHandler.Get)
		api.PUT("/strategies/:id", strategyHandler.Update)
		api.DELETE("/strategies/:id", strategyHandler.Delete)
		api.POST("/strategies/parse", strategyHandler.Parse)

		api.POST("/backtests", backtestHandler.Run)
		api.GET("/backtests", backtestHandler.List)
		api.GET("/backtests/:id", backtestHandler.Get)

		api.POST("/research", researchHandler.Run)
	}
	router.GET("/ws/backtest", progressSocket.Serve)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	// Handle shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("shutdown complete")
}

func setupDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate database schemas
	if err := db.AutoMigrate(&models.Strategy{}, &models.BacktestRun{}); err != nil {
		return nil, err
	}

	return db, nil
}
