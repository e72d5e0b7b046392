// Package progress maintains the durable record of which dates have been
// fully scraped, which are still open, and which failed, plus cumulative
// goal statistics. State is flushed after every date so a crash mid-run
// loses at most the date being processed.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/storage"
)

// ErrStoreUnavailable wraps store failures that must abort a run: without
// durable progress the scraper cannot safely decide what to skip.
var ErrStoreUnavailable = errors.New("progress store unavailable")

// Tracker owns the in-memory progress state and its persistence.
type Tracker struct {
	store  storage.BlobStore
	key    string
	logger logger.Logger

	mu    sync.Mutex
	state *models.ProgressState
}

// NewTracker creates a Tracker persisting under key in store.
func NewTracker(store storage.BlobStore, key string, log logger.Logger) *Tracker {
	return &Tracker{
		store:  store,
		key:    key,
		logger: log,
		state:  models.NewProgressState(),
	}
}

// Load reads persisted state. A missing blob starts fresh; a corrupt blob
// starts fresh with a warning so one bad write cannot wedge the scraper
// forever. Any other store failure is ErrStoreUnavailable.
func (t *Tracker) Load(ctx context.Context) error {
	data, err := t.store.Get(ctx, t.key)
	if errors.Is(err, storage.ErrNotFound) {
		t.logger.Info("no saved progress, starting fresh", logger.String("key", t.key))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	state := models.NewProgressState()
	if err := json.Unmarshal(data, state); err != nil {
		t.logger.Warn("corrupt progress blob, starting fresh",
			logger.String("key", t.key),
			logger.Error(err),
		)
		return nil
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
	return nil
}

// Verdict returns the recorded verdict for a date, if any.
func (t *Tracker) Verdict(date string) (models.DateVerdict, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if contains(t.state.CompletedDates, date) {
		return models.DateCompleted, true
	}
	if contains(t.state.InProgressDates, date) {
		return models.DateInProgress, true
	}
	if contains(t.state.FailedDates, date) {
		return models.DateFailed, true
	}
	return "", false
}

// OpenDates returns the dates recorded as in progress or failed, sorted
// oldest first. These must be revisited on the next run.
func (t *Tracker) OpenDates() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	open := make([]string, 0, len(t.state.InProgressDates)+len(t.state.FailedDates))
	open = append(open, t.state.InProgressDates...)
	for _, d := range t.state.FailedDates {
		if !contains(open, d) {
			open = append(open, d)
		}
	}
	sort.Strings(open)
	return open
}

// MarkDate records the verdict for a date, moving it between the three
// sets so a date appears in exactly one of them.
func (t *Tracker) MarkDate(date string, verdict models.DateVerdict, record models.DateRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.CompletedDates = remove(t.state.CompletedDates, date)
	t.state.InProgressDates = remove(t.state.InProgressDates, date)
	t.state.FailedDates = remove(t.state.FailedDates, date)

	switch verdict {
	case models.DateCompleted:
		t.state.CompletedDates = insertSorted(t.state.CompletedDates, date)
	case models.DateInProgress:
		t.state.InProgressDates = insertSorted(t.state.InProgressDates, date)
	case models.DateFailed:
		t.state.FailedDates = insertSorted(t.state.FailedDates, date)
	}

	record.Date = date
	record.LastCheckedAt = time.Now().UTC()
	t.state.DateRecords[date] = record
}

// RecordGoals folds newly uploaded goals into the cumulative statistics.
// Only goals that actually reached the feed store should be passed here.
func (t *Tracker) RecordGoals(goals []*models.GoalEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, g := range goals {
		t.state.Stats.TotalGoals++
		t.state.Stats.GoalsByTeam[g.GoalForTeam]++
		if g.Scorer.ID != "" {
			t.state.Stats.GoalsByPlayer[g.Scorer.ID]++
		}
	}
}

// Flush persists the current state. Called after each date.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	t.state.LastUpdated = time.Now().UTC()
	data, err := json.Marshal(t.state)
	t.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if err := t.store.Put(ctx, t.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state for read-only use.
func (t *Tracker) Snapshot() *models.ProgressState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := models.NewProgressState()
	out.CompletedDates = append(out.CompletedDates, t.state.CompletedDates...)
	out.InProgressDates = append(out.InProgressDates, t.state.InProgressDates...)
	out.FailedDates = append(out.FailedDates, t.state.FailedDates...)
	for k, v := range t.state.DateRecords {
		out.DateRecords[k] = v
	}
	out.Stats.TotalGoals = t.state.Stats.TotalGoals
	for k, v := range t.state.Stats.GoalsByTeam {
		out.Stats.GoalsByTeam[k] = v
	}
	for k, v := range t.state.Stats.GoalsByPlayer {
		out.Stats.GoalsByPlayer[k] = v
	}
	out.LastUpdated = t.state.LastUpdated
	return out
}

func contains(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func remove(dates []string, date string) []string {
	out := dates[:0]
	for _, d := range dates {
		if d != date {
			out = append(out, d)
		}
	}
	return out
}

func insertSorted(dates []string, date string) []string {
	dates = append(dates, date)
	sort.Strings(dates)
	return dates
}
