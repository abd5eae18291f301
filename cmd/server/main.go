// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salesdash/backend-go/internal/api"
	"github.com/salesdash/backend-go/internal/cache"
	"github.com/salesdash/backend-go/internal/config"
	"github.com/salesdash/backend-go/internal/repository/postgres"
	"github.com/salesdash/backend-go/internal/service"
	"github.com/salesdash/backend-go/internal/statistics"
	"github.com/salesdash/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	catalogCache, err := cache.NewCatalogCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Catalog cache unavailable, continuing without it")
		catalogCache = cache.NewNoopCatalogCache()
	}

	statsRepo := postgres.NewStatisticsRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	salesRepo := postgres.NewSalesRepository(db)

	services := &api.Services{
		StatisticsService: service.NewStatisticsService(statsRepo, catalogRepo, statistics.NewZone(cfg.Stats.UTCOffsetHours)),
		SalesService:      service.NewSalesService(salesRepo, catalogRepo),
		CatalogService:    service.NewCatalogService(catalogRepo, catalogCache),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Int("utc_offset_hours", cfg.Stats.UTCOffsetHours).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
