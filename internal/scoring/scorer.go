// Package scoring derives the comeback flags, importance score, and tag sets
// for extracted goals. Given the same ordered goal list it always produces
// the same output, which the idempotent publisher depends on.
package scoring

import (
	"strconv"
	"strings"

	"github.com/goalfeed/scraper/internal/models"
)

// Strength and modifier values from the play-by-play feed.
const (
	StrengthPowerPlay   = "powerplay"
	StrengthShortHanded = "shorthanded"

	ModifierPowerPlay   = "power-play"
	ModifierShortHanded = "short-handed"
	ModifierEmptyNet    = "empty-net"
	ModifierPenaltyShot = "penalty-shot"

	PeriodTypeOvertime = "OT"
	PeriodTypeShootout = "SO"

	regulationPeriods = 3
)

// Scorer computes importance scores and tags from a configurable rule table.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given rule table.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// ScoreGame enriches a game's goals in chronological order: comeback and
// period-derived flags, importance score, interest tags, and filter tags.
// Game-winner and piling-on flags must already be set by the extractor.
func (s *Scorer) ScoreGame(goals []*models.GoalEvent) {
	for _, g := range goals {
		s.deriveFlags(g)
		g.ImportanceScore = s.scoreGoal(g)
		g.InterestTags = s.interestTags(g)
		g.FilterTags = s.filterTags(g)
	}
}

func (s *Scorer) deriveFlags(g *models.GoalEvent) {
	g.IsOvertime = g.Period > regulationPeriods || g.PeriodType == PeriodTypeOvertime
	g.IsShootout = g.PeriodType == PeriodTypeShootout
	g.IsEmptyNet = g.GoalModifier == ModifierEmptyNet
	g.IsPenaltyShot = g.GoalModifier == ModifierPenaltyShot

	forScore, againstScore := teamScores(g)
	prevFor, prevAgainst := prevTeamScores(g)

	g.IsTyingGoal = prevFor < prevAgainst && forScore == againstScore
	g.IsGoAheadGoal = prevFor <= prevAgainst && forScore > againstScore
}

func (s *Scorer) scoreGoal(g *models.GoalEvent) int {
	w := s.weights
	score := w.Base

	if g.IsGameWinner {
		score += w.GameWinner
	}

	forScore, againstScore := teamScores(g)
	prevFor, prevAgainst := prevTeamScores(g)

	if g.IsTyingGoal {
		score += w.TyingGoal
	}
	if g.IsGoAheadGoal {
		score += w.GoAheadGoal
	}

	// Insurance goal: stretching a one-goal lead to two or more late in the
	// game.
	if g.Period >= regulationPeriods && prevFor-prevAgainst == 1 && forScore-againstScore >= 2 {
		score += w.Insurance
	}

	if abs(forScore-againstScore) <= 1 {
		score += w.CloseGame
	}

	remaining := ClockSeconds(g.TimeRemain)
	if remaining > 0 && remaining <= w.LateSeconds {
		score += w.LatePeriod
	}
	if remaining > 0 && remaining <= w.BuzzerSeconds {
		score += w.BuzzerBeater
	}

	if g.Period == regulationPeriods && !g.IsGameWinner {
		score += w.ThirdPeriod
	}

	if g.IsOvertime {
		score += w.Overtime
	}
	if g.IsShootout {
		score += w.Shootout
	}

	if g.Strength == StrengthPowerPlay || g.GoalModifier == ModifierPowerPlay {
		score += w.PowerPlay
	}
	if g.Strength == StrengthShortHanded || g.GoalModifier == ModifierShortHanded {
		score += w.ShortHanded
	}

	if g.IsPenaltyShot {
		score += w.PenaltyShot
	}
	if g.IsEmptyNet {
		score += w.EmptyNet
		if score < w.MinScore {
			score = w.MinScore
		}
	}

	if isFirstGoal(g) {
		score += w.FirstGoal
	}

	return score
}

func isFirstGoal(g *models.GoalEvent) bool {
	return (g.HomeScore == 1 && g.AwayScore == 0) || (g.HomeScore == 0 && g.AwayScore == 1)
}

// teamScores returns the post-goal score from the scoring team's perspective.
func teamScores(g *models.GoalEvent) (forTeam, against int) {
	if g.IsHomeGoal {
		return g.HomeScore, g.AwayScore
	}
	return g.AwayScore, g.HomeScore
}

func prevTeamScores(g *models.GoalEvent) (forTeam, against int) {
	if g.IsHomeGoal {
		return g.PrevHomeScore, g.PrevAwayScore
	}
	return g.PrevAwayScore, g.PrevHomeScore
}

// ClockSeconds parses a "MM:SS" game clock into seconds. Malformed input
// parses to zero rather than failing the pipeline.
func ClockSeconds(clock string) int {
	if clock == "" || !strings.Contains(clock, ":") {
		return 0
	}
	parts := strings.SplitN(clock, ":", 2)
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
