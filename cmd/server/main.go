package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewhitmore/lawdesk/internal/api"
	"github.com/ewhitmore/lawdesk/internal/config"
	"github.com/ewhitmore/lawdesk/internal/gateway/google"
	"github.com/ewhitmore/lawdesk/internal/gateway/stripe"
	applog "github.com/ewhitmore/lawdesk/internal/log"
	"github.com/ewhitmore/lawdesk/internal/repository/postgres"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/ewhitmore/lawdesk/internal/session"
	"github.com/ewhitmore/lawdesk/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := applog.New("development")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := applog.New(cfg.Environment)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize notification hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Initialize gateways and services
	tokens := session.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour, cfg.RoleRefreshWindow)
	checkout := stripe.NewClient(cfg.StripeSecretKey)
	oauth := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	services := service.NewServices(repos, cfg, tokens, checkout, oauth, hub, logger)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	hub.Stop()
	logger.Info().Msg("server stopped")
}
