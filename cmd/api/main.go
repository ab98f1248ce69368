package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/api"
	"github.com/cargoroute/cargoroute_core/internal/cache"
	"github.com/cargoroute/cargoroute_core/internal/config"
	"github.com/cargoroute/cargoroute_core/internal/history"
	"github.com/cargoroute/cargoroute_core/internal/middleware"
	"github.com/cargoroute/cargoroute_core/internal/planner"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log.Println("Starting CargoRoute API server...")

	cfg := config.Load()

	p, err := planner.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize planner: %v", err)
	}
	log.Println("✓ Planner initialized")

	// Redis cache is optional; planning still works without it
	var planCache *cache.PlanCache
	if cfg.RedisAddr != "" {
		planCache, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		} else {
			defer planCache.Close()
			log.Println("✓ Redis connection established")
		}
	}

	// Plan history is optional too
	var store *history.Store
	if cfg.DatabaseURL != "" {
		store, err = history.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: database unavailable, running without history: %v", err)
		} else {
			defer store.Close()
			log.Println("✓ Database connection established")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "CargoRoute API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if planCache != nil {
		app.Use(middleware.RateLimit(planCache.Client()))
	}

	server := api.NewServer(p, planCache, store)
	server.RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server listening on %s", cfg.ListenAddr)
	log.Printf("📍 Route planning: POST http://localhost%s/v1/route-plan", cfg.ListenAddr)
	log.Printf("❤️  Health check: http://localhost%s/health", cfg.ListenAddr)

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
