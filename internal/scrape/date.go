package scrape

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
	"github.com/goalfeed/scraper/internal/status"
)

// processDate runs the full pipeline for one date and records its verdict
// in progress state. Every exit path leaves the date in exactly one of the
// three verdict sets.
func (o *Orchestrator) processDate(ctx context.Context, date string) models.DateDetail {
	detail := models.DateDetail{Date: date}

	schedule, err := o.source.GetSchedule(ctx, date)
	if err != nil {
		detail.Status = string(models.DateFailed)
		detail.Error = fmt.Sprintf("schedule: %v", err)
		o.progress.MarkDate(date, models.DateFailed, models.DateRecord{
			Classification: models.DateFailed,
		})
		o.logger.Error("schedule fetch failed",
			logger.String("date", date),
			logger.Error(err),
		)
		return detail
	}

	games := schedule.GamesOn(date)
	day := status.ClassifyDay(date, games)
	detail.Games = day

	if day.TotalGames == 0 {
		detail.Status = string(models.DateCompleted)
		o.progress.MarkDate(date, models.DateCompleted, models.DateRecord{
			Classification: models.DateCompleted,
		})
		return detail
	}

	goals, fetchErrs := o.collectGoals(ctx, games)
	detail.Goals = len(goals)
	o.metrics.GoalsExtracted.Add(float64(len(goals)))

	result := o.publisher.PublishGoals(ctx, goals)
	detail.Uploaded = len(result.Published)
	detail.Failed = result.Failed
	o.progress.RecordGoals(result.Published)

	var problems []string
	problems = append(problems, fetchErrs...)
	problems = append(problems, result.Errors...)
	if len(problems) > 0 {
		detail.Error = strings.Join(problems, "; ")
	}

	verdict := dateVerdict(day, len(fetchErrs), result.Failed)
	detail.Status = string(verdict)

	o.progress.MarkDate(date, verdict, models.DateRecord{
		Classification: verdict,
		FinishedGames:  day.Finished,
		TotalGames:     day.TotalGames,
	})

	o.logger.Info("date processed",
		logger.String("date", date),
		logger.String("verdict", string(verdict)),
		logger.Int("games", day.TotalGames),
		logger.Int("goals", detail.Goals),
		logger.Int("uploaded", detail.Uploaded),
	)

	return detail
}

// dateVerdict folds game completion and failure counts into the date's
// verdict. Publish failures keep the date open so the next run retries the
// missing goals; the already-published ones are shielded by dedup.
func dateVerdict(day *models.DayStatus, fetchErrs, publishFailed int) models.DateVerdict {
	switch {
	case fetchErrs > 0:
		return models.DateFailed
	case day.AllFinished && publishFailed == 0:
		return models.DateCompleted
	default:
		return models.DateInProgress
	}
}

type gameResult struct {
	goals []*models.GoalEvent
	err   error
}

// collectGoals fetches play-by-play for every live or finished game on the
// date through a bounded worker pool, then extracts and scores the goals.
// Results keep schedule order so publication stays chronological per date.
func (o *Orchestrator) collectGoals(ctx context.Context, games []nhl.ScheduledGame) ([]*models.GoalEvent, []string) {
	var playable []nhl.ScheduledGame
	for _, g := range games {
		if state := status.Classify(g.GameState); state == models.GameStateLive || state == models.GameStateFinal {
			playable = append(playable, g)
		}
	}
	if len(playable) == 0 {
		return nil, nil
	}

	results := make([]gameResult, len(playable))
	sem := make(chan struct{}, o.cfg.GameWorkers)
	var wg sync.WaitGroup

	for i, game := range playable {
		wg.Add(1)
		go func(idx int, game nhl.ScheduledGame) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			goals, err := o.scrapeGame(ctx, game)
			results[idx] = gameResult{goals: goals, err: err}
		}(i, game)
	}
	wg.Wait()

	var all []*models.GoalEvent
	var errs []string
	for i, res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Sprintf("game %d: %v", playable[i].ID, res.err))
			continue
		}
		all = append(all, res.goals...)
	}
	return all, errs
}

// scrapeGame fetches one game's detail, extracts its goals and scores them.
// The landing fetch only supplies clip IDs, so its failure downgrades to a
// warning instead of failing the game.
func (o *Orchestrator) scrapeGame(ctx context.Context, game nhl.ScheduledGame) ([]*models.GoalEvent, error) {
	if err := o.detailLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	pbp, err := o.source.GetPlayByPlay(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("play-by-play: %w", err)
	}

	var clips map[int]nhl.LandingGoal
	landing, err := o.source.GetGameLanding(ctx, game.ID)
	if err != nil {
		o.logger.Warn("landing fetch failed, goals will have no fallback clips",
			logger.Int("game_id", game.ID),
			logger.Error(err),
		)
	} else {
		clips = landing.ClipLookup()
	}

	goals := o.extractor.ExtractGoals(game, pbp, clips)
	o.scorer.ScoreGame(goals)
	return goals, nil
}
