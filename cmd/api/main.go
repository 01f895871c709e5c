package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivent-backend/internal/api"
	apimw "drivent-backend/internal/api/middleware"
	"drivent-backend/internal/config"
	"drivent-backend/internal/database"
	"drivent-backend/internal/logging"
	"drivent-backend/internal/modules/enrollment"
	"drivent-backend/pkg/viacep"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	// Read app.env (if present) and the environment.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	// 2. --- Middleware ---
	e.Use(apimw.RequestID())
	e.Use(apimw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	dbPool, err := database.NewPool(startupCtx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	cancelStartup()
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbPool.Close()
	logger.Info("Successfully connected to the database")

	// 4. --- Dependency Injection (Wiring everything up) ---
	// --- Postal code lookup ---
	cepLookup, err := viacep.NewCachedLookup(
		viacep.NewClient(cfg.ViaCEPBaseURL, viacep.WithTimeout(cfg.ViaCEPTimeout)),
		cfg.ViaCEPCacheSize,
	)
	if err != nil {
		log.Fatalf("Unable to create postal code lookup: %v", err)
	}

	// --- Enrollments Module ---
	enrollmentRepo := enrollment.NewRepository(dbPool)
	addressRepo := enrollment.NewAddressRepository(dbPool)
	enrollmentService := enrollment.NewService(enrollmentRepo, addressRepo, cepLookup, logger)
	enrollmentHandler := enrollment.NewHandler(enrollmentService)

	// 5. --- Initialize Router ---
	api.SetupRoutes(e, cfg.JWTSecret, enrollmentHandler, api.NewHealthHandler(dbPool))

	// 6. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	logger.Info("Server exiting")
}
