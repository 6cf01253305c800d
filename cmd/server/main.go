package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"jobvault/internal/api/routes"
	"jobvault/internal/capture"
	"jobvault/internal/config"
	"jobvault/internal/extractor"
	"jobvault/internal/llm"
	"jobvault/internal/scraper"
	"jobvault/internal/scraper/engines/headed"
	"jobvault/internal/scraper/engines/static"
	"jobvault/internal/storage"
	"jobvault/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if strings.EqualFold(cfg.Logging.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.Info("Starting JobVault capture service")

	ctx := context.Background()

	// Database
	store, err := storage.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to initialize database schema")
	}

	// LLM
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create LLM provider")
	}
	logger.WithField("provider", provider.Name()).Info("LLM provider ready")
	llmClient := llm.NewClient(provider, cfg.LLM.Timeout)

	// Fetch pipeline
	ext := extractor.New(cfg.Scraper.MinContentChars)
	staticEngine := static.NewEngine(cfg.Scraper.UserAgent, cfg.Scraper.RetryAttempts, cfg.Scraper.RequestTimeout)
	browserEngine := headed.NewEngine(
		cfg.Scraper.UserAgent,
		cfg.Scraper.HeadlessMode,
		cfg.Scraper.StealthMode,
		cfg.Scraper.BrowserFallback,
		cfg.Scraper.RetryAttempts,
		cfg.Scraper.SettleDelay,
		cfg.Scraper.RequestTimeout,
	)
	if !browserEngine.Available() {
		logger.Warn("Browser fallback unavailable, JS-rendered pages will fail")
	}
	strategy := scraper.NewStrategy(staticEngine, browserEngine, ext,
		cfg.Scraper.UnsupportedDomains, cfg.Scraper.RateLimitDelay)

	// Artifacts and orchestrator
	artifacts := storage.NewFileStore(cfg.Storage.DataRoot)
	svc := capture.NewService(strategy, llmClient, store, artifacts)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, svc, store, artifacts)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error shutting down server")
		}

		logger.Info("Server shutdown complete")
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("address", address).Info("Server starting")

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
