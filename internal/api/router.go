// Package api is the HTTP facade over the scrape pipeline: trigger a run,
// inspect game status for a date, and read progress and startup state.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goalfeed/scraper/internal/feedstore"
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/progress"
	"github.com/goalfeed/scraper/internal/scrape"
)

// Pipeline is the orchestrator surface the handlers call.
type Pipeline interface {
	Run(ctx context.Context, opts scrape.RunOptions) (*models.RunSummary, error)
	ScrapeRange(ctx context.Context, start, end string) (*models.RunSummary, error)
	GameStatus(ctx context.Context, date string) (*models.DayStatus, error)
	Progress() *models.ProgressState
}

// FeedReader reads published activities back out of the feed store.
type FeedReader interface {
	GetActivities(ctx context.Context, feedID string, limit, offset int) (*feedstore.ActivityPage, error)
}

// Handler holds the facade's dependencies.
type Handler struct {
	pipeline    Pipeline
	summaries   *progress.SummaryWriter
	feeds       FeedReader
	centralFeed string
	logger      logger.Logger
}

// NewHandler creates the facade handler. centralFeed is the default feed for
// goal reads when the caller does not name one.
func NewHandler(pipeline Pipeline, summaries *progress.SummaryWriter, feeds FeedReader, centralFeed string, log logger.Logger) *Handler {
	return &Handler{
		pipeline:    pipeline,
		summaries:   summaries,
		feeds:       feeds,
		centralFeed: centralFeed,
		logger:      log,
	}
}

// NewRouter builds the gin engine with all facade routes registered.
func NewRouter(h *Handler, registry *prometheus.Registry, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/scrape/check", h.CheckForNewGoals)
		v1.POST("/scrape/range", h.ScrapeRange)
		v1.GET("/scrape/progress", h.Progress)
		v1.GET("/scrape/startup-status", h.StartupStatus)
		v1.GET("/scrape/history", h.History)
		v1.GET("/games/status", h.GameStatus)
		v1.GET("/goals/recent", h.RecentGoals)
	}

	return router
}
