// Package app wires the scraper's components together and owns the process
// lifecycle: HTTP facade, cron schedule, startup scrape, graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/goalfeed/scraper/internal/api"
	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/dedup"
	"github.com/goalfeed/scraper/internal/extract"
	"github.com/goalfeed/scraper/internal/feedstore"
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/metrics"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
	"github.com/goalfeed/scraper/internal/progress"
	"github.com/goalfeed/scraper/internal/publish"
	"github.com/goalfeed/scraper/internal/redis"
	"github.com/goalfeed/scraper/internal/scoring"
	"github.com/goalfeed/scraper/internal/scrape"
	"github.com/goalfeed/scraper/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App is the assembled scraper service.
type App struct {
	cfg          *config.Config
	logger       logger.Logger
	orchestrator *scrape.Orchestrator
	summaries    *progress.SummaryWriter
	server       *http.Server
	scheduler    *cron.Cron
}

// New builds the service from configuration.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	var store storage.BlobStore
	switch cfg.Progress.Backend {
	case "redis":
		store = storage.NewRedisStore(redisClient)
	default:
		store = storage.NewHTTPStore(cfg.Progress.BaseURL, cfg.NHL.Timeout, log)
	}

	feedClient, err := feedstore.NewClient(cfg.Feed, log)
	if err != nil {
		return nil, fmt.Errorf("feed store: %w", err)
	}

	source := nhl.NewClient(cfg.NHL, log)
	source.SetRequestCounter(m.SourceRequests)

	tracker := progress.NewTracker(store, cfg.Progress.Key, log)
	summaries := progress.NewSummaryWriter(store, log)

	publisher := publish.NewPublisher(
		feedClient,
		dedup.NewTracker(redisClient, cfg.Scraper.DedupTTL, log),
		cfg.Feed,
		float64(cfg.Scraper.UploadRateRPS),
		m,
		log,
	)

	orchestrator := scrape.NewOrchestrator(
		cfg.Scraper,
		source,
		extract.New(log),
		scoring.NewScorer(cfg.Scoring),
		publisher,
		tracker,
		summaries,
		m,
		log,
	)

	handler := api.NewHandler(orchestrator, summaries, feedClient, cfg.Feed.CentralFeed, log)
	router := api.NewRouter(handler, registry, cfg.Debug)

	return &App{
		cfg:          cfg,
		logger:       log,
		orchestrator: orchestrator,
		summaries:    summaries,
		server: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		scheduler: cron.New(),
	}, nil
}

// Orchestrator exposes the pipeline for one-shot invocations.
func (a *App) Orchestrator() *scrape.Orchestrator {
	return a.orchestrator
}

// Run starts the facade, the cron schedule and the startup scrape, then
// blocks until ctx is cancelled and shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if spec := a.cfg.Scraper.CronSpec; spec != "" {
		if _, err := a.scheduler.AddFunc(spec, func() { a.scheduledRun(ctx) }); err != nil {
			return fmt.Errorf("cron spec %q: %w", spec, err)
		}
		a.scheduler.Start()
		a.logger.Info("scheduler started", logger.String("spec", spec))
	}

	if a.cfg.Scraper.StartupEnabled {
		go a.startupScrape(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", logger.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	cronCtx := a.scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	_ = a.logger.Sync()
	return nil
}

// scheduledRun is the cron entry point. A run already in flight is skipped
// silently; the next tick will catch up.
func (a *App) scheduledRun(ctx context.Context) {
	_, err := a.orchestrator.CheckForNewGoals(ctx)
	if errors.Is(err, scrape.ErrRunInProgress) {
		a.logger.Debug("scheduled run skipped, previous run still active")
		return
	}
	if err != nil {
		a.logger.Error("scheduled run failed", logger.Error(err))
	}
}

// startupScrape performs the catch-up scrape in the background and records
// its status document so deployments can tell whether backfill finished.
func (a *App) startupScrape(ctx context.Context) {
	status := &models.StartupStatus{
		StartedAt: time.Now().UTC(),
		Status:    models.StartupRunning,
		DaysBack:  a.cfg.Scraper.StartupDaysBack,
	}
	a.summaries.SaveStartupStatus(ctx, status)

	summary, err := a.orchestrator.Run(ctx, scrape.RunOptions{DaysBack: a.cfg.Scraper.StartupDaysBack})

	now := time.Now().UTC()
	status.CompletedAt = &now
	status.Results = summary
	if err != nil {
		status.Status = models.StartupFailed
		status.Error = err.Error()
		a.logger.Error("startup scrape failed", logger.Error(err))
	} else {
		status.Status = models.StartupCompleted
		a.logger.Info("startup scrape completed",
			logger.Int("dates_checked", summary.DatesChecked),
			logger.Int("uploaded", summary.Uploaded),
		)
	}

	// Save with a fresh context so a cancelled startup still leaves a record.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.summaries.SaveStartupStatus(saveCtx, status)
}
