package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
	"github.com/goalfeed/scraper/internal/scrape"
)

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CheckForNewGoals triggers one scrape cycle and returns its summary. A run
// already in flight yields 409 rather than queueing a second one.
// ?days_back= overrides the lookback window, ?force=true revisits the whole
// window even where completed, and ?force_dates= names comma-separated extra
// dates to rescrape.
func (h *Handler) CheckForNewGoals(c *gin.Context) {
	var opts scrape.RunOptions
	if raw := c.Query("days_back"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be a positive integer"})
			return
		}
		opts.DaysBack = n
	}
	if raw := c.Query("force"); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "force must be a boolean"})
			return
		}
		opts.Force = force
	}
	if raw := c.Query("force_dates"); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				opts.Forced = append(opts.Forced, d)
			}
		}
	}

	summary, err := h.pipeline.Run(c.Request.Context(), opts)
	h.writeRunResult(c, summary, err)
}

// ScrapeRange runs the pipeline over an explicit inclusive date range given
// by ?start= and ?end= (YYYY-MM-DD). Completed and failed dates are skipped.
func (h *Handler) ScrapeRange(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	summary, err := h.pipeline.ScrapeRange(c.Request.Context(), start, end)
	if err != nil && summary == nil && !errors.Is(err, scrape.ErrRunInProgress) {
		// Range validation failures never start a run.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeRunResult(c, summary, err)
}

func (h *Handler) writeRunResult(c *gin.Context, summary *models.RunSummary, err error) {
	switch {
	case errors.Is(err, scrape.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "scrape already in progress"})
		return
	case err != nil:
		h.logger.Error("scrape run failed", logger.Error(err))
		resp := gin.H{"error": err.Error()}
		if summary != nil {
			resp["summary"] = summary
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GameStatus classifies the games on the date given by the ?date= query
// parameter (YYYY-MM-DD).
func (h *Handler) GameStatus(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	day, err := h.pipeline.GameStatus(c.Request.Context(), date)
	switch {
	case errors.Is(err, nhl.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, day)
}

// Progress returns the durable scrape progress state.
func (h *Handler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipeline.Progress())
}

// StartupStatus returns the status document of the startup scrape, or 404
// when no startup scrape has run.
func (h *Handler) StartupStatus(c *gin.Context) {
	status, err := h.summaries.StartupStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("read startup status failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no startup scrape recorded"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// RecentGoals reads recently published goals back from the feed store.
// ?feed= selects a team feed by tricode; default is the central feed.
func (h *Handler) RecentGoals(c *gin.Context) {
	feed := c.DefaultQuery("feed", h.centralFeed)

	limit := 25
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.feeds.GetActivities(c.Request.Context(), feed, limit, offset)
	if err != nil {
		h.logger.Error("feed read failed", logger.String("feed", feed), logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// History returns recent run summaries, newest last. ?limit= bounds the
// count, defaulting to 10.
func (h *Handler) History(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	history, err := h.summaries.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("read summary history failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": history, "count": len(history)})
}
