// Package metrics exposes Prometheus instrumentation for the scrape
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scraper's collectors. A single instance is shared by
// the orchestrator and publisher.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	DatesProcessed  *prometheus.CounterVec
	GoalsExtracted  prometheus.Counter
	GoalsPublished  prometheus.Counter
	PublishFailures prometheus.Counter
	PublishDuration prometheus.Histogram
	SourceRequests  *prometheus.CounterVec
}

// New registers the scraper collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_runs_total",
			Help: "Scrape runs by result.",
		}, []string{"result"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Wall-clock duration of scrape runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		DatesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_dates_processed_total",
			Help: "Dates processed by verdict.",
		}, []string{"verdict"}),
		GoalsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_goals_extracted_total",
			Help: "Goal events extracted from play-by-play data.",
		}),
		GoalsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_goals_published_total",
			Help: "Goal events uploaded to the feed store.",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_publish_failures_total",
			Help: "Goal events that failed to upload.",
		}),
		PublishDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_publish_duration_seconds",
			Help:    "Per-goal publish duration.",
			Buckets: prometheus.DefBuckets,
		}),
		SourceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_source_requests_total",
			Help: "Upstream schedule and play-by-play requests by outcome.",
		}, []string{"endpoint", "outcome"}),
	}
}
