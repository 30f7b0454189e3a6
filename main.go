package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/loadlink/intake-backend/config"
	"github.com/loadlink/intake-backend/database"
	"github.com/loadlink/intake-backend/handlers"
	"github.com/loadlink/intake-backend/jobs"
	"github.com/loadlink/intake-backend/services"
	"github.com/loadlink/intake-backend/shared"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
	}

	// Connect to database; an empty DATABASE_URL selects no-op storage so
	// the rest of the pipeline can run disconnected.
	storeConfigured := cfg.DatabaseURL != ""
	if storeConfigured {
		if err := database.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.Migrate("database/schema.sql"); err != nil {
			log.Printf("Migration warning: %v", err)
		}
	}

	// Candidate-load catalog, loaded once and immutable for the lifetime of
	// the process.
	catalog, err := services.NewLoadCatalogFromFile(cfg.LoadsFile)
	if err != nil {
		logrus.WithError(err).Warn("Load catalog unavailable, matching against empty catalog")
		catalog = services.NewLoadCatalog(nil)
	}

	// Initialize pipeline components
	httpFactory := shared.NewHTTPClientFactory(cfg.GetFMCSATimeout())
	fmcsaClient := services.NewFMCSAClient(cfg, httpFactory)
	matcher := services.NewLoadMatcher(catalog)

	var store services.ResultStore
	if storeConfigured {
		store = services.NewPostgresResultStore(database.DB, cfg.GetResultTTL())
	} else {
		store = services.NewNoopResultStore()
	}

	intakeService := services.NewIntakeService(fmcsaClient, matcher, store)
	intakeHandler := handlers.NewIntakeHandler(intakeService)

	logrus.WithFields(logrus.Fields{
		"catalog_loads":    catalog.Size(),
		"fmcsa_offline":    cfg.FMCSAWebKey == "",
		"fmcsa_timeout":    cfg.GetFMCSATimeout(),
		"fmcsa_retries":    cfg.GetFMCSAMaxRetries(),
		"fmcsa_backoff":    cfg.GetFMCSABackoff(),
		"result_ttl":       cfg.GetResultTTL(),
		"store_configured": storeConfigured,
	}).Info("Intake backend services initialized")

	// Reclaim expired result rows in the background
	if storeConfigured {
		cleanupJob := jobs.NewResultCleanupJob(database.DB)
		go func() {
			cleanupTicker := time.NewTicker(1 * time.Hour)
			defer cleanupTicker.Stop()
			for range cleanupTicker.C {
				cleanupJob.Run()
			}
		}()
	}

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")
	api.Post("/requests", intakeHandler.SubmitRequest)
	api.Get("/requests/:request_id", intakeHandler.GetResult)
	api.Get("/requests", intakeHandler.GetResult)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
