package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kuponlucky/raffle-api/internal/auth"
	"github.com/kuponlucky/raffle-api/internal/config"
	"github.com/kuponlucky/raffle-api/internal/handler"
	"github.com/kuponlucky/raffle-api/internal/notify"
	"github.com/kuponlucky/raffle-api/internal/repository"
	"github.com/kuponlucky/raffle-api/internal/service"
	"github.com/kuponlucky/raffle-api/internal/validator"
	"github.com/kuponlucky/raffle-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// appCtx bounds background work: the notification listener and open
	// event streams. Cancelled during shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize database pool with retry, then ensure the schema
	pool, err := database.NewPool(appCtx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(appCtx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	// Change notification fan-out
	hub := notify.NewHub()
	listener := notify.NewListener(pool, hub)
	go listener.Run(appCtx)

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Lucky Coupon Raffle",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with the custom notblank and phone rules
	validate := validator.New()

	// Admin session components
	authenticator, err := auth.NewStaticAuthenticator(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize authenticator")
	}
	tokens := auth.NewTokenService(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.TokenTTL)*time.Second)

	// Initialize coupon components (layered architecture)
	couponRepo := repository.NewCouponRepository(pool)
	couponService := service.NewCouponService(couponRepo)
	drawService := service.NewDrawService(couponRepo, cfg.Draw.SpinFrames, cfg.Draw.SpinDelay())
	couponHandler := handler.NewCouponHandler(couponService, validate)
	adminHandler := handler.NewAdminHandler(authenticator, tokens, couponService, drawService, validate)
	eventsHandler := handler.NewEventsHandler(appCtx, hub, couponService)

	// Health and metrics
	healthHandler := handler.NewHealthHandler(pool)
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public routes
	app.Post("/api/coupons", couponHandler.RegisterCoupon)
	app.Get("/api/coupons", couponHandler.ListCoupons)
	app.Get("/api/stats", couponHandler.GetStats)
	app.Get("/api/events", eventsHandler.Stream)

	// Admin routes
	app.Post("/api/admin/login", adminHandler.Login)
	admin := app.Group("/api/admin", auth.RequireAdmin(tokens))
	admin.Post("/draw", adminHandler.Draw)
	admin.Delete("/coupons/:id", adminHandler.DeleteCoupon)
	admin.Post("/reset", adminHandler.Reset)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Stop background work first so open event streams terminate
	appCancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
