package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"renovo-backend-go/internal/api"
	"renovo-backend-go/internal/config"
	"renovo-backend-go/internal/middleware"
)

func main() {
	// .env is a local convenience; deployed environments set variables directly.
	if os.Getenv("GIN_MODE") != "release" {
		_ = godotenv.Load()
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(appConfig, zapLogger); err != nil {
		zapLogger.Fatal("Server terminated", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	if appConfig.IsRelease() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(appConfig *config.Config, logger *zap.Logger) error {
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	deps, err := buildDependencies(initCtx, appConfig, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// Order matters: the request id must exist before the logger reads it and
	// recovery must wrap everything after it.
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(appConfig))
	router.Use(middleware.Metrics())
	router.Use(middleware.EdgeGate(deps.provider, appConfig.GatePrefixes(), logger))

	api.SetupRoutes(router, deps.provider, deps.services, api.RouteOptions{
		Release:           appConfig.IsRelease(),
		LeadRatePerMinute: appConfig.LeadRatePerMinute,
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", appConfig.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()), zap.String("storeDriver", appConfig.StoreDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
