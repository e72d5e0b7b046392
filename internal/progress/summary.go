package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/storage"
)

const (
	summaryHistoryKey = "scrape_summary_history.json"
	startupStatusKey  = "scraper_startup_status.json"
	maxHistoryEntries = 50
)

// SummaryWriter persists run summaries and the startup status document.
// Failures are logged, not returned: summary blobs are operator-facing
// diagnostics and must never fail a run that already published its goals.
type SummaryWriter struct {
	store  storage.BlobStore
	logger logger.Logger
}

// NewSummaryWriter creates a SummaryWriter on store.
func NewSummaryWriter(store storage.BlobStore, log logger.Logger) *SummaryWriter {
	return &SummaryWriter{store: store, logger: log}
}

// SaveSummary writes the run summary under a timestamped key and appends
// it to the rolling history, which keeps the most recent entries only.
func (w *SummaryWriter) SaveSummary(ctx context.Context, summary *models.RunSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		w.logger.Error("marshal run summary", logger.Error(err))
		return
	}

	key := fmt.Sprintf("scrape_summary_%s.json", summary.StartedAt.UTC().Format("20060102T150405Z"))
	if err := w.store.Put(ctx, key, data); err != nil {
		w.logger.Warn("save run summary failed", logger.String("key", key), logger.Error(err))
	}

	w.appendHistory(ctx, summary)
}

func (w *SummaryWriter) appendHistory(ctx context.Context, summary *models.RunSummary) {
	var history []*models.RunSummary

	data, err := w.store.Get(ctx, summaryHistoryKey)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &history); err != nil {
			w.logger.Warn("corrupt summary history, resetting", logger.Error(err))
			history = nil
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		w.logger.Warn("read summary history failed", logger.Error(err))
		return
	}

	history = append(history, summary)
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	out, err := json.Marshal(history)
	if err != nil {
		w.logger.Error("marshal summary history", logger.Error(err))
		return
	}
	if err := w.store.Put(ctx, summaryHistoryKey, out); err != nil {
		w.logger.Warn("save summary history failed", logger.Error(err))
	}
}

// History returns up to limit recent run summaries, newest last.
func (w *SummaryWriter) History(ctx context.Context, limit int) ([]*models.RunSummary, error) {
	data, err := w.store.Get(ctx, summaryHistoryKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var history []*models.RunSummary
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode summary history: %w", err)
	}
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// SaveStartupStatus writes the startup scrape status document.
func (w *SummaryWriter) SaveStartupStatus(ctx context.Context, status *models.StartupStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		w.logger.Error("marshal startup status", logger.Error(err))
		return
	}
	if err := w.store.Put(ctx, startupStatusKey, data); err != nil {
		w.logger.Warn("save startup status failed", logger.Error(err))
	}
}

// StartupStatus reads the startup scrape status document, if present.
func (w *SummaryWriter) StartupStatus(ctx context.Context) (*models.StartupStatus, error) {
	data, err := w.store.Get(ctx, startupStatusKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status models.StartupStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decode startup status: %w", err)
	}
	return &status, nil
}
