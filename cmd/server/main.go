package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/nivaran/storefront/configs"
	"github.com/nivaran/storefront/internal/application/services"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/nivaran/storefront/internal/infrastructure/cache"
	"github.com/nivaran/storefront/internal/infrastructure/db"
	"github.com/nivaran/storefront/internal/infrastructure/email"
	"github.com/nivaran/storefront/internal/infrastructure/health"
	"github.com/nivaran/storefront/internal/infrastructure/httpserver"
	"github.com/nivaran/storefront/internal/infrastructure/redis"
	"github.com/nivaran/storefront/internal/infrastructure/repositories"
	"github.com/nivaran/storefront/internal/infrastructure/shopify"
	"github.com/nivaran/storefront/internal/infrastructure/storage"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting storefront application...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize Redis client. Redis only backs the cache's persistent tier
	// and the persisted cart id, so a missing Redis degrades to in-memory
	// storage instead of aborting startup.
	var redisClient *goredis.Client
	redisClient, err = redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, continuing with in-memory storage")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")
	}

	// Durable key/value store and two-tier cache
	var universal goredis.UniversalClient
	if redisClient != nil {
		universal = redisClient
	}
	// The store namespaces all redis keys under the app name; the cache manager
	// adds its own key prefix on top of that.
	store := storage.NewStore(universal, "storefront", logger)

	cacheManager := cache.NewManager(store, cfg.Cache.KeyPrefix, logger)
	stopSweeper := cacheManager.StartSweeper(cfg.Cache.SweepInterval)
	defer stopSweeper()

	// Commerce API gateway
	gateway := shopify.NewClient(&shopify.Config{
		Endpoint: cfg.Shopify.Endpoint(),
		Token:    cfg.Shopify.StorefrontToken,
		Timeout:  cfg.Shopify.RequestTimeout,
		TTLs: shopify.TTLConfig{
			Products:      cfg.Cache.ProductsTTL,
			ProductDetail: cfg.Cache.ProductDetailTTL,
			Collections:   cfg.Cache.CollectionsTTL,
			Shop:          cfg.Cache.ShopTTL,
		},
	}, cacheManager, logger)

	// Repositories
	newsletterRepo := repositories.NewNewsletterRepository(database, logger)

	// Email service
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Wire all services with their dependencies
	catalogService := services.NewCatalogService(gateway, logger)
	cartService := services.NewCartService(gateway, store, logger)
	newsletterService := services.NewNewsletterService(newsletterRepo, emailService, logger)

	// Recover or create the active cart before serving traffic. On failure
	// the engine stays unready and each cart request re-runs recovery until
	// one succeeds; until then cart endpoints answer 503.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	if err := cartService.Initialize(initCtx); err != nil {
		logger.WithError(err).Warn("Cart initialization failed, recovery will be retried on cart requests")
	}
	cancelInit()

	hcSlice := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewUpstreamHealthChecker(cfg.Shopify.Endpoint()),
	}
	if redisClient != nil {
		hcSlice = append(hcSlice, health.NewRedisHealthChecker(redisClient))
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		CatalogService:    catalogService,
		CartService:       cartService,
		NewsletterService: newsletterService,
		HealthCheckers:    hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
