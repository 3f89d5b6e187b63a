package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"varcvar-api/internal/config"
	"varcvar-api/internal/handlers"
	applog "varcvar-api/internal/logger"
	"varcvar-api/internal/recorder"
	"varcvar-api/internal/scheduler"
	"varcvar-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	appLog := applog.New(applog.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Initialize services
	rec := recorder.Open(context.Background(), cfg, appLog)
	var backend *services.BackendClient
	if cfg.BackendURL != "" {
		backend = services.NewBackendClient(cfg.BackendURL)
	}
	submissions := services.NewSubmissionService(appLog, rec, backend,
		time.Duration(cfg.SubmissionTTLMinutes)*time.Minute)
	defer submissions.Close()

	sched := scheduler.NewScheduler(appLog)
	if err := sched.RegisterPrune(cfg.PruneCron, submissions); err != nil {
		appLog.Fatal().Err(err).Msg("failed to register scheduler tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	formHandler := handlers.NewFormHandler(submissions)
	paramsHandler := handlers.NewParametersHandler(submissions)
	healthHandler := handlers.NewHealthHandler(cfg.Recorder)

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "VaR-CVaR-API",
		AppName:       "VaR/CVaR Parameters v" + handlers.Version,
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 10,
		BodyLimit:     64 * 1024,
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	handlers.Register(app, formHandler, paramsHandler, healthHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	appLog.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("recorder", cfg.Recorder).
		Bool("forwarding", backend != nil).
		Msg("VaR/CVaR parameter service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		appLog.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	appLog.Info().Msg("server shutdown complete")
}
