// Package planner decides which dates a scrape run must visit.
package planner

import (
	"sort"
	"time"

	"github.com/goalfeed/scraper/internal/models"
)

// DateLayout is the wire format for schedule dates.
const DateLayout = "2006-01-02"

// ProgressReader is the slice of progress state the planner needs.
type ProgressReader interface {
	Verdict(date string) (models.DateVerdict, bool)
	OpenDates() []string
}

// Planner builds the ordered list of dates to scrape: the recent window
// minus completed dates, plus any older dates still open in progress state,
// plus forced dates. Output is oldest first so catching up on a backlog
// publishes goals in roughly chronological order.
type Planner struct {
	progress ProgressReader
}

// New creates a Planner over progress state.
func New(progress ProgressReader) *Planner {
	return &Planner{progress: progress}
}

// Plan returns the dates to visit for a run starting at now, looking back
// daysBack days including today. With force the whole window is revisited,
// completed dates included. Forced dates are always included, even when
// already completed.
func (p *Planner) Plan(now time.Time, daysBack int, force bool, forced []string) []string {
	if daysBack < 1 {
		daysBack = 1
	}

	seen := make(map[string]struct{})
	var dates []string

	add := func(date string) {
		if _, ok := seen[date]; ok {
			return
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}

	today := now.UTC()
	for i := daysBack - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		if verdict, ok := p.progress.Verdict(date); ok && verdict == models.DateCompleted && !force {
			continue
		}
		add(date)
	}

	// Dates left open by earlier runs are revisited even when they have
	// fallen out of the lookback window.
	for _, date := range p.progress.OpenDates() {
		add(date)
	}

	for _, date := range forced {
		if _, err := time.Parse(DateLayout, date); err != nil {
			continue
		}
		add(date)
	}

	sort.Strings(dates)
	return dates
}
