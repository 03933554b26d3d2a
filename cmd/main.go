package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	zlog "github.com/rs/zerolog/log"

	"crmhub/internal/caching"
	"crmhub/internal/config"
	"crmhub/internal/handlers"
	"crmhub/internal/middleware"
	"crmhub/internal/repositories"
	"crmhub/internal/services"
	"crmhub/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()
	if err := cfg.RequireDatabase(); err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		zlog.Fatal().Err(err).Msg("failed to apply schema")
	}

	store := repositories.NewStore(pool)

	customerSvc := services.NewCustomerService(store)
	productSvc := services.NewProductService(store)
	orderSvc := services.NewOrderService(store)

	optional := map[string]handlers.Pinger{}
	var runStore caching.RunStore = caching.NoopRunStore{}
	if cfg.Redis.Enabled() {
		runStore = caching.NewRedisRunStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		optional["redis"] = runStore
	}
	if cfg.Minio.Enabled() {
		minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			zlog.Warn().Err(err).Msg("minio client unavailable, storage health check disabled")
		} else {
			optional["storage"] = minioSvc
		}
	}

	operationHandlers := handlers.NewOperationHandlers(customerSvc, productSvc, orderSvc)
	healthHandlers := handlers.NewHealthHandlers(store, version, optional)
	jobHandlers := handlers.NewJobHandlers(runStore)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("2M"))

	versionMiddleware := middleware.NewVersionMiddleware("v1")
	e.Use(versionMiddleware.VersionHeader())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// Job run history
	e.GET("/jobs/:name/runs", jobHandlers.GetJobRuns)

	// Operation endpoint
	e.POST("/graphql", operationHandlers.Execute)

	go func() {
		zlog.Info().Str("version", version).Int("port", cfg.Port).Msg("crmhub server starting")
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
	zlog.Info().Msg("server stopped")
}
