package extract

import (
	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
)

// determineGameWinner replays a game's goals chronologically and returns the
// goal id of the game-winning goal plus the set of piling-on goal ids.
//
// The game-winning goal is the last goal that gave the eventual winner a lead
// the opponent never tied or retook: any later equalizer forces a later
// lead-taking goal, so tracking the most recent one is sufficient. In a
// blowout that is the goal establishing the final, never-relinquished margin,
// not the last goal overall.
//
// A FINAL game with a tied score is a data error: no goal is flagged and the
// inconsistency is logged rather than crashing the pipeline.
func (e *Extractor) determineGameWinner(game nhl.ScheduledGame, goalPlays []nhl.Play) (string, map[string]struct{}) {
	if len(goalPlays) == 0 {
		return "", nil
	}

	last := goalPlays[len(goalPlays)-1].Details
	finalHome, finalAway := last.HomeScore, last.AwayScore

	if finalHome == finalAway {
		e.logger.Warn("final score tied, skipping game-winner detection",
			logger.Int("game_id", game.ID),
			logger.Int("home_score", finalHome),
			logger.Int("away_score", finalAway),
		)
		return "", nil
	}

	winnerIsHome := finalHome > finalAway

	var winnerGoalID string
	pilingOn := make(map[string]struct{})

	for i := range goalPlays {
		play := &goalPlays[i]
		details := play.Details

		scoredByHome := details.EventOwnerTeam == game.HomeTeam.ID
		if scoredByHome != winnerIsHome {
			continue
		}

		forScore, againstScore := details.AwayScore, details.HomeScore
		if scoredByHome {
			forScore, againstScore = details.HomeScore, details.AwayScore
		}
		prevFor, prevAgainst := forScore-1, againstScore

		goalID := models.NewGoalID(game.ID, play.EventID)

		tookLead := prevFor <= prevAgainst && forScore > againstScore
		switch {
		case tookLead:
			winnerGoalID = goalID
		case winnerGoalID != "" && prevFor > prevAgainst:
			// Winner scoring while already ahead is piling on.
			pilingOn[goalID] = struct{}{}
		}
	}

	return winnerGoalID, pilingOn
}
