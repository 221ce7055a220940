package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/landgis/api/internal/config"
	"github.com/landgis/api/internal/database"
	"github.com/landgis/api/internal/handlers"
	"github.com/landgis/api/internal/logger"
	"github.com/landgis/api/internal/middleware"
	"github.com/landgis/api/internal/repository"
	"github.com/landgis/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting LandGIS API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Apply pending schema migrations before opening the pool
	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database, log); err != nil {
			log.Fatal("Failed to run database migrations", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"name": cfg.Database.Name,
			})
		}
	}

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Role
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Role())

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	parcelRepo := repository.NewParcelRepository(db.Pool)
	configRepo := repository.NewConfigRepository(db.Pool)
	settingsRepo := repository.NewSettingsRepository(db.Pool)

	// Initialize service layer
	parcelService := services.NewParcelService(parcelRepo, log)
	catalogService := services.NewCatalogService(configRepo, log)
	schemaService := services.NewSchemaService(db, parcelRepo, configRepo, log)
	settingsService := services.NewSettingsService(settingsRepo, log)

	// Initialize handlers
	parcelHandler := handlers.NewParcelHandler(parcelService)
	configHandler := handlers.NewConfigHandler(catalogService)
	attributeHandler := handlers.NewAttributeHandler(schemaService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		parcels := v1.Group("/parcels")
		{
			parcels.GET("", parcelHandler.List)
			parcels.POST("", parcelHandler.Create)
			parcels.DELETE("/:id", parcelHandler.Delete)
			parcels.GET("/:id/attributes", parcelHandler.GetAttributes)
			parcels.PUT("/:id/attributes", parcelHandler.ReplaceAttributes)
		}

		configs := v1.Group("/attribute-configs")
		{
			configs.GET("", configHandler.List)
			configs.POST("", configHandler.Upsert)
			configs.PATCH("/:id", configHandler.Update)
			configs.DELETE("/:key", configHandler.Delete)
			configs.PUT("/order", configHandler.Reorder)
			configs.POST("/sync", attributeHandler.Sync)
		}

		attributes := v1.Group("/attributes")
		{
			attributes.POST("", attributeHandler.Add)
			attributes.POST("/rename", attributeHandler.Rename)
			attributes.DELETE("/:key", attributeHandler.Delete)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/edit-permissions", settingsHandler.GetEditPermissions)
			settings.PUT("/edit-permissions", settingsHandler.SaveEditPermissions)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
