// Package status classifies raw game states from the schedule source and
// aggregates a date's games into a completion verdict.
package status

import (
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
)

// Raw game state values the schedule source is known to emit.
const (
	rawFuture   = "FUT"
	rawPregame  = "PRE"
	rawLive     = "LIVE"
	rawCritical = "CRIT"
	rawFinal    = "FINAL"
	rawOfficial = "OFF"
)

// Classify maps a raw game state to its lifecycle state. Unrecognized values
// classify as LIVE so the date keeps being retried instead of prematurely
// counting as finished.
func Classify(raw string) models.GameState {
	switch raw {
	case rawFuture, rawPregame:
		return models.GameStateFuture
	case rawLive, rawCritical:
		return models.GameStateLive
	case rawFinal, rawOfficial:
		return models.GameStateFinal
	default:
		return models.GameStateLive
	}
}

// ClassifyDay classifies every game scheduled on a date and computes the
// date's completion verdict. A date with zero scheduled games has nothing to
// wait on and is immediately finished.
func ClassifyDay(date string, games []nhl.ScheduledGame) *models.DayStatus {
	day := &models.DayStatus{
		Date:       date,
		TotalGames: len(games),
		Games:      make([]models.GameStatus, 0, len(games)),
	}

	for _, game := range games {
		state := Classify(game.GameState)
		day.Games = append(day.Games, models.GameStatus{
			GameID:   game.ID,
			Date:     date,
			State:    state,
			RawState: game.GameState,
			HomeTeam: game.HomeTeam.Abbrev,
			AwayTeam: game.AwayTeam.Abbrev,
		})

		switch state {
		case models.GameStateFinal:
			day.Finished++
		case models.GameStateLive:
			day.Live++
		case models.GameStateFuture:
			day.Future++
		}
	}

	day.AllFinished = day.Finished == day.TotalGames
	return day
}
