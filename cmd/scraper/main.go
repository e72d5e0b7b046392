// Package main is the entry point for the goal scraper service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/goalfeed/scraper/internal/app"
	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/scrape"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	var (
		configPath string
		once       bool
		daysBack   int
		force      bool
		forceDates string
	)
	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.BoolVar(&once, "once", false, "Run a single scrape cycle and exit")
	flag.IntVar(&daysBack, "days", 0, "Override lookback window for this run")
	flag.BoolVar(&force, "force", false, "Rescrape the whole window even where completed")
	flag.StringVar(&forceDates, "force-dates", "", "Comma-separated dates (YYYY-MM-DD) to rescrape even if completed")
	flag.Parse()

	// Optional; environment may be provided by the deployment instead.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("goal scraper starting",
		logger.String("version", version),
		logger.Int("days_back", cfg.Scraper.DaysBack),
	)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", logger.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		runOnce(ctx, application, log, daysBack, force, forceDates)
		return
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

// runOnce executes a single scrape cycle, used for cron-style deployments
// and manual backfills.
func runOnce(ctx context.Context, application *app.App, log logger.Logger, daysBack int, force bool, forceDates string) {
	opts := scrape.RunOptions{DaysBack: daysBack, Force: force}
	if forceDates != "" {
		for _, d := range strings.Split(forceDates, ",") {
			if d = strings.TrimSpace(d); d != "" {
				opts.Forced = append(opts.Forced, d)
			}
		}
	}

	summary, err := application.Orchestrator().Run(ctx, opts)
	if err != nil {
		log.Error("Scrape run failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Scrape run complete",
		logger.String("run_id", summary.RunID),
		logger.Int("dates_checked", summary.DatesChecked),
		logger.Int("new_goals", summary.NewGoals),
		logger.Int("uploaded", summary.Uploaded),
		logger.Int("errors", len(summary.Errors)),
	)
}
