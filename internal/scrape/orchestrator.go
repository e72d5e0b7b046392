// Package scrape runs the goal ingestion pipeline: plan dates, classify
// games, extract and score goals, publish them, and record progress.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/extract"
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/metrics"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
	"github.com/goalfeed/scraper/internal/planner"
	"github.com/goalfeed/scraper/internal/progress"
	"github.com/goalfeed/scraper/internal/publish"
	"github.com/goalfeed/scraper/internal/scoring"
	"github.com/goalfeed/scraper/internal/status"
)

// ErrRunInProgress is returned when a run is requested while another run
// holds the pipeline. Runs never overlap within one process.
var ErrRunInProgress = errors.New("scrape run already in progress")

// Source is the slice of the NHL client the orchestrator uses.
type Source interface {
	GetSchedule(ctx context.Context, date string) (*nhl.ScheduleResponse, error)
	GetPlayByPlay(ctx context.Context, gameID int) (*nhl.PlayByPlayResponse, error)
	GetGameLanding(ctx context.Context, gameID int) (*nhl.LandingResponse, error)
}

// GoalPublisher uploads a scored batch and reports what happened to it.
type GoalPublisher interface {
	PublishGoals(ctx context.Context, goals []*models.GoalEvent) *publish.Result
}

// RunOptions tune a single run.
type RunOptions struct {
	// DaysBack overrides the configured lookback when positive. The
	// override is clamped to the same cap as the configured value.
	DaysBack int
	// Force revisits every date in the window, completed or not.
	Force bool
	// Forced dates are always visited, completed or not.
	Forced []string
}

// Orchestrator wires the pipeline stages together and owns run exclusivity.
type Orchestrator struct {
	cfg       config.ScraperConfig
	source    Source
	extractor *extract.Extractor
	scorer    *scoring.Scorer
	publisher GoalPublisher
	progress  *progress.Tracker
	summaries *progress.SummaryWriter
	planner   *planner.Planner

	detailLimiter *rate.Limiter
	metrics       *metrics.Metrics
	logger        logger.Logger

	runMu sync.Mutex
	now   func() time.Time
}

// NewOrchestrator assembles the pipeline.
func NewOrchestrator(
	cfg config.ScraperConfig,
	source Source,
	extractor *extract.Extractor,
	scorer *scoring.Scorer,
	publisher GoalPublisher,
	tracker *progress.Tracker,
	summaries *progress.SummaryWriter,
	m *metrics.Metrics,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:           cfg,
		source:        source,
		extractor:     extractor,
		scorer:        scorer,
		publisher:     publisher,
		progress:      tracker,
		summaries:     summaries,
		planner:       planner.New(tracker),
		detailLimiter: rate.NewLimiter(rate.Limit(cfg.DetailRateRPS), 1),
		metrics:       m,
		logger:        log,
		now:           time.Now,
	}
}

// Run executes one scrape cycle and always returns a summary describing
// what it did, even on failure. Only one run executes at a time; a second
// caller gets ErrRunInProgress instead of queueing.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*models.RunSummary, error) {
	return o.runPlanned(ctx, func() []string {
		daysBack := o.cfg.DaysBack
		if opts.DaysBack > 0 {
			daysBack = opts.DaysBack
			if max := config.MaxDaysBack(); daysBack > max {
				daysBack = max
			}
		}
		return o.planner.Plan(o.now(), daysBack, opts.Force, opts.Forced)
	})
}

// ScrapeRange runs the pipeline over an explicit inclusive date range,
// skipping dates already completed or failed. It shares Run's single-flight
// guard.
func (o *Orchestrator) ScrapeRange(ctx context.Context, start, end string) (*models.RunSummary, error) {
	from, err := time.Parse(planner.DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.Parse(planner.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}

	return o.runPlanned(ctx, func() []string {
		var dates []string
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			date := d.Format(planner.DateLayout)
			if verdict, ok := o.progress.Verdict(date); ok &&
				(verdict == models.DateCompleted || verdict == models.DateFailed) {
				continue
			}
			dates = append(dates, date)
		}
		return dates
	})
}

// runPlanned holds the run lock, loads progress, plans the dates and walks
// them through the per-date pipeline. plan runs after progress is loaded so
// it sees current verdicts.
func (o *Orchestrator) runPlanned(ctx context.Context, plan func() []string) (*models.RunSummary, error) {
	if !o.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer o.runMu.Unlock()

	timer := prometheus.NewTimer(o.metrics.RunDuration)
	defer timer.ObserveDuration()

	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: o.now().UTC(),
	}

	if err := o.progress.Load(ctx); err != nil {
		summary.FinishedAt = o.now().UTC()
		summary.Errors = append(summary.Errors, err.Error())
		o.metrics.RunsTotal.WithLabelValues("aborted").Inc()
		return summary, err
	}

	dates := plan()

	o.logger.Info("scrape run starting",
		logger.String("run_id", summary.RunID),
		logger.Int("dates", len(dates)),
		logger.Strings("plan", dates),
	)

	var runErr error
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("run cancelled: %v", err))
			runErr = err
			break
		}

		detail := o.processDate(ctx, date)
		summary.Details = append(summary.Details, detail)
		summary.DatesChecked++
		summary.NewGoals += detail.Goals
		summary.Uploaded += detail.Uploaded
		if detail.Error != "" {
			summary.Errors = append(summary.Errors, date+": "+detail.Error)
		}

		switch models.DateVerdict(detail.Status) {
		case models.DateCompleted:
			summary.DaysCompleted++
		case models.DateInProgress:
			summary.DaysInProgress++
		}
		o.metrics.DatesProcessed.WithLabelValues(detail.Status).Inc()

		// Flush after every date so a crash loses at most one date of work.
		if err := o.progress.Flush(ctx); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			runErr = err
			break
		}
	}

	summary.FinishedAt = o.now().UTC()

	result := "ok"
	if runErr != nil {
		result = "aborted"
	} else if len(summary.Errors) > 0 {
		result = "partial"
	}
	o.metrics.RunsTotal.WithLabelValues(result).Inc()

	o.summaries.SaveSummary(ctx, summary)

	o.logger.Info("scrape run finished",
		logger.String("run_id", summary.RunID),
		logger.String("result", result),
		logger.Int("dates_checked", summary.DatesChecked),
		logger.Int("uploaded", summary.Uploaded),
	)

	return summary, runErr
}

// CheckForNewGoals runs one cycle with configured defaults. This is the
// entry point used by the scheduler and the HTTP facade.
func (o *Orchestrator) CheckForNewGoals(ctx context.Context) (*models.RunSummary, error) {
	return o.Run(ctx, RunOptions{})
}

// GameStatus classifies a single date's games without side effects.
func (o *Orchestrator) GameStatus(ctx context.Context, date string) (*models.DayStatus, error) {
	if _, err := time.Parse(planner.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	schedule, err := o.source.GetSchedule(ctx, date)
	if err != nil {
		return nil, err
	}
	return status.ClassifyDay(date, schedule.GamesOn(date)), nil
}

// Progress returns a copy of the durable progress state.
func (o *Orchestrator) Progress() *models.ProgressState {
	return o.progress.Snapshot()
}
