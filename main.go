package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"lpfactory/config"
	"lpfactory/middleware"
	"lpfactory/routes"
	"lpfactory/tenant"
	"lpfactory/utils"
	"lpfactory/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "SERVER: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry error reporting
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Optional Redis cache for tenant configs and rate limiting
	var cache *redis.Client
	if config.AppConfig.Redis.Enabled {
		cache = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.Redis.Address,
			Password: config.AppConfig.Redis.Password,
			DB:       config.AppConfig.Redis.DB,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.Printf("Redis unavailable, running without config cache: %v", err)
			cache = nil
		}
	}

	// Tenant registry and content store
	registry := tenant.NewRegistry(
		config.AppConfig.ContentDir,
		config.AppConfig.SharedHostSuffix,
		cache,
		log.New(os.Stdout, "TENANT: ", log.LstdFlags),
	)
	store := utils.NewContentStore(config.AppConfig.GitRepo, config.AppConfig.ContentDir)
	mailer := utils.NewMailer()

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Initialize and start background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deployWorker := worker.NewDeployWorker(config.DB, store, registry,
		log.New(os.Stdout, "DEPLOY: ", log.LstdFlags))
	go deployWorker.Start(ctx)

	statsWorker := worker.NewStatsWorker(config.DB, log.New(os.Stdout, "STATS: ", log.LstdFlags))
	go statsWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, &routes.Dependencies{
		DB:           config.DB,
		Registry:     registry,
		Store:        store,
		Mailer:       mailer,
		DeployWorker: deployWorker,
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s (%d tenants)",
		config.AppConfig.ServerPort, len(registry.ListTenants()))
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
