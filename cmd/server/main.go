package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/shift-server/internal/api"
	"github.com/opsdesk/shift-server/internal/client"
	"github.com/opsdesk/shift-server/internal/config"
	"github.com/opsdesk/shift-server/internal/repository"
	"github.com/opsdesk/shift-server/internal/service"
	"github.com/opsdesk/shift-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	logger := utils.NewLogger()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// External collaborators
	evidence := client.NewHTTPEvidenceStore(cfg.Clients.EvidenceStoreURL, logger)
	extractor := client.NewHTTPNumericExtractor(cfg.Clients.ExtractorURL)

	var notifier client.Notifier = client.NoopNotifier{}
	if cfg.Clients.NotifierURL != "" {
		notifier = client.NewWebhookNotifier(cfg.Clients.NotifierURL, logger)
	}

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, cfg.Shift, evidence, extractor, notifier, logger)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", serverAddr).Msg("Starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
