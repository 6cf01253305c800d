// Command capture ingests one job posting URL from the command line, running
// the same pipeline as the HTTP endpoint without requiring the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"jobvault/internal/capture"
	"jobvault/internal/config"
	"jobvault/internal/extractor"
	"jobvault/internal/llm"
	"jobvault/internal/scraper"
	"jobvault/internal/scraper/engines/headed"
	"jobvault/internal/scraper/engines/static"
	"jobvault/internal/storage"
	"jobvault/pkg/models"
	"jobvault/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: capture <job-url>")
		os.Exit(1)
	}
	url := os.Args[1]

	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The CLI prints its own progress; keep structured logs out of the way
	// unless explicitly requested.
	if os.Getenv("LOG_LEVEL") == "" {
		utils.GetLogger().SetLevel(logrus.WarnLevel)
	}

	ctx := context.Background()

	fmt.Printf("Data root : %s\n", cfg.Storage.DataRoot)
	fmt.Printf("Database  : %s\n\n", cfg.Database.URL)

	store, err := storage.Connect(ctx, cfg.Database.URL)
	if err != nil {
		fail("Database connection failed", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		fail("Schema initialization failed", err)
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		fail("LLM provider setup failed", err)
	}

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
	strategy := scraper.NewStrategy(staticEngine, browserEngine, ext,
		cfg.Scraper.UnsupportedDomains, cfg.Scraper.RateLimitDelay)

	svc := capture.NewService(strategy, llm.NewClient(provider, cfg.LLM.Timeout),
		store, storage.NewFileStore(cfg.Storage.DataRoot))

	fmt.Printf("Capturing : %s\n", url)

	result, err := svc.Capture(ctx, url)
	if err != nil {
		fail("Capture failed", err)
	}

	fmt.Println()
	if result.Status == models.CaptureStatusAlreadyExists {
		fmt.Printf("Already captured: [%d] %s - %s\n", result.RoleID, result.Company, result.Title)
		fmt.Printf("    Skills   : %d\n", result.SkillsExtracted)
		return
	}

	fmt.Println("Capture complete")
	fmt.Printf("    Company  : %s\n", result.Company)
	fmt.Printf("    Title    : %s\n", result.Title)
	fmt.Printf("    Role ID  : %d\n", result.RoleID)
	fmt.Printf("    Skills   : %d extracted\n", result.SkillsExtracted)
	elapsed := time.Duration(result.ProcessingTimeSeconds * float64(time.Second))
	fmt.Printf("    Time     : %s\n", utils.FormatDuration(elapsed))
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
