package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jordandelaney/METAR-Vibe/internal/api"
	"github.com/jordandelaney/METAR-Vibe/internal/briefing"
	"github.com/jordandelaney/METAR-Vibe/internal/briefing/gemini"
	"github.com/jordandelaney/METAR-Vibe/internal/config"
	"github.com/jordandelaney/METAR-Vibe/internal/observability"
	"github.com/jordandelaney/METAR-Vibe/internal/storage/sqlite"
	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/internal/websocket"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting METAR Vibe server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Create metrics. When the endpoint is disabled the collectors still
	// exist so the services can record into them unconditionally.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	} else {
		metrics = observability.NewUnregisteredMetrics()
	}

	// Ensure the database directory exists
	dbDir := filepath.Dir(cfg.Storage.SQLitePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Error("Failed to create database directory", logger.Error(err), logger.String("path", dbDir))
		os.Exit(1)
	}

	// Create SQLite storage for the search history
	searchStorage, err := sqlite.NewSearchStorage(cfg.Storage.SQLitePath, cfg.Storage.MaxRecentSearches, log)
	if err != nil {
		log.Error("Failed to create SQLite storage", logger.Error(err))
		os.Exit(1)
	}
	defer searchStorage.Close()
	log.Info("Using SQLite storage", logger.String("path", cfg.Storage.SQLitePath))

	// Create WebSocket server
	wsServer := websocket.NewServer(metrics, log)

	// Start WebSocket server
	go wsServer.Run()

	// Create weather service
	weatherService := weather.NewService(cfg.Weather, searchStorage, wsServer, metrics, clockwork.NewRealClock(), log)

	// Start weather service
	if err := weatherService.Start(); err != nil {
		log.Error("Failed to start weather service", logger.Error(err))
		os.Exit(1)
	}

	// Create briefing service (if enabled). The nil interface is what tells
	// the API layer the feature is off.
	var briefingService api.BriefingProvider
	if cfg.Briefing.Enabled {
		geminiClient, err := gemini.NewClient(context.Background(), cfg.Briefing.APIKey, cfg.Briefing.Model, log)
		if err != nil {
			log.Error("Failed to create Gemini client", logger.Error(err))
			os.Exit(1)
		}
		briefingService = briefing.NewService(geminiClient, log)
		log.Info("Briefing service enabled", logger.String("model", cfg.Briefing.Model))
	} else {
		log.Info("Briefing service disabled in configuration")
	}

	// Create API router
	router := api.NewRouter(weatherService, searchStorage, briefingService, Version, cfg, log, wsServer)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.String("addr", addr), logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	// Stop background services first
	log.Info("Stopping weather service...")
	if err := weatherService.Stop(); err != nil {
		log.Error("Error stopping weather service", logger.Error(err))
	} else {
		log.Info("Weather service stopped.")
	}

	// Shutdown the HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	} else {
		log.Info("HTTP server shutdown complete")
	}

	log.Info("Server fully stopped")
}
