// Package publish uploads scored goals to the feed store. Every write is
// keyed by the goal's stable external ID, so re-publishing the same goals
// is a no-op as far as readers can observe.
package publish

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/dedup"
	"github.com/goalfeed/scraper/internal/feedstore"
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/metrics"
	"github.com/goalfeed/scraper/internal/models"
)

const tracerName = "github.com/goalfeed/scraper/internal/publish"

// Result summarizes one publish batch. Published lists the goals that were
// newly uploaded this call; goals skipped by dedup are counted, not listed.
type Result struct {
	Published []*models.GoalEvent
	Skipped   int
	Failed    int
	Errors    []string
}

// Publisher writes goals to the object collection and the per-team plus
// central feeds. One goal failing never stops the rest of the batch.
type Publisher struct {
	store       *feedstore.Client
	tracker     *dedup.Tracker
	collection  string
	centralFeed string
	limiter     *rate.Limiter
	tracer      trace.Tracer
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// NewPublisher creates a Publisher. tracker may be nil when Redis dedup is
// disabled; the feed store's own foreign-id dedup still holds.
func NewPublisher(
	store *feedstore.Client,
	tracker *dedup.Tracker,
	cfg config.FeedConfig,
	uploadRPS float64,
	m *metrics.Metrics,
	log logger.Logger,
) *Publisher {
	return &Publisher{
		store:       store,
		tracker:     tracker,
		collection:  cfg.Collection,
		centralFeed: cfg.CentralFeed,
		limiter:     rate.NewLimiter(rate.Limit(uploadRPS), 1),
		tracer:      otel.Tracer(tracerName),
		metrics:     m,
		logger:      log,
	}
}

// PublishGoals uploads a batch in order. Goals already published (per the
// dedup tracker) are skipped; a goal that fails mid-upload is recorded and
// the batch continues. Context cancellation stops the batch between goals.
func (p *Publisher) PublishGoals(ctx context.Context, goals []*models.GoalEvent) *Result {
	result := &Result{}

	for i, goal := range goals {
		if err := ctx.Err(); err != nil {
			result.Failed += len(goals) - i
			result.Errors = append(result.Errors, fmt.Sprintf("batch aborted: %v", err))
			break
		}

		seen := false
		if p.tracker != nil {
			seen, _ = p.tracker.Seen(ctx, goal.ExternalID())
		}
		if seen {
			result.Skipped++
			continue
		}

		duplicate, err := p.publishOne(ctx, goal)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", goal.ExternalID(), err))
			p.metrics.PublishFailures.Inc()
			p.logger.Error("publish goal failed",
				logger.String("external_id", goal.ExternalID()),
				logger.Error(err),
			)
			continue
		}

		if p.tracker != nil {
			if err := p.tracker.Mark(ctx, goal.ExternalID()); err != nil {
				// Non-fatal: the store's foreign-id dedup covers a re-upload.
				p.logger.Warn("dedup mark failed",
					logger.String("external_id", goal.ExternalID()),
					logger.Error(err),
				)
			}
		}

		// The store already held this goal under its foreign id, so it was
		// published by an earlier run and must not be recounted.
		if duplicate {
			result.Skipped++
			continue
		}

		result.Published = append(result.Published, goal)
		p.metrics.GoalsPublished.Inc()
	}

	return result
}

// publishOne performs the three writes for a single goal: object upsert,
// team feed append, central feed append. All three share the external ID as
// foreign id, so a partial failure here is safe to retry whole. A duplicate
// report from the team feed means the goal was already published.
func (p *Publisher) publishOne(ctx context.Context, goal *models.GoalEvent) (duplicate bool, err error) {
	ctx, span := p.tracer.Start(ctx, "publish.goal",
		trace.WithAttributes(
			attribute.String("goal.external_id", goal.ExternalID()),
			attribute.String("goal.team", goal.GoalForTeam),
			attribute.Int("goal.score", goal.ImportanceScore),
		),
	)
	defer span.End()

	timer := prometheus.NewTimer(p.metrics.PublishDuration)
	defer timer.ObserveDuration()

	if err := p.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit wait: %w", err)
	}

	if err := p.store.UpsertObject(ctx, p.collection, goal.GoalID, goal); err != nil {
		span.RecordError(err)
		return false, err
	}

	activity := buildActivity(goal)

	duplicate, err = p.store.AddActivity(ctx, goal.GoalForTeam, activity)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("team feed %s: %w", goal.GoalForTeam, err)
	}

	if _, err := p.store.AddActivity(ctx, p.centralFeed, activity); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("central feed: %w", err)
	}

	return duplicate, nil
}
