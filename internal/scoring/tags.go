package scoring

import (
	"fmt"

	"github.com/goalfeed/scraper/internal/models"
)

// interestTags builds the ordered topic tags for a goal. Order is fixed so
// repeated runs over the same input produce identical tag lists.
func (s *Scorer) interestTags(g *models.GoalEvent) []string {
	tags := make([]string, 0, 16)

	tags = append(tags, "team:"+g.GoalForTeam)
	tags = append(tags, "opponent:"+g.GoalAgainstTeam)

	if g.Scorer.ID != "" {
		tags = append(tags, "player:"+g.Scorer.ID)
	}

	tags = append(tags, "shot:"+g.ShotType)

	if g.GoalModifier != "" && g.GoalModifier != "even-strength" {
		tags = append(tags, "goal:"+g.GoalModifier)
	}

	if g.Strength == StrengthShortHanded {
		tags = append(tags, "shorthanded")
	}
	if g.Strength == StrengthPowerPlay {
		tags = append(tags, "powerplay")
	}

	if g.IsGameWinner {
		tags = append(tags, "game-winner")
	}
	if g.IsPilingOn {
		tags = append(tags, "piling-on")
	}

	if g.Period > regulationPeriods || g.PeriodType == PeriodTypeOvertime {
		tags = append(tags, "overtime")
	}
	if g.PeriodType == PeriodTypeShootout {
		tags = append(tags, "shootout")
	}

	if g.IsEmptyNet {
		tags = append(tags, "empty-net")
	}
	if g.IsPenaltyShot {
		tags = append(tags, "penalty-shot")
	}

	if g.IsTyingGoal {
		tags = append(tags, "tying-goal", "comeback")
	}
	if g.IsGoAheadGoal {
		tags = append(tags, "go-ahead-goal", "comeback")
	}

	forScore, againstScore := teamScores(g)
	if abs(forScore-againstScore) <= 1 {
		tags = append(tags, "close-game")
	}

	if isFirstGoal(g) {
		tags = append(tags, "first-goal")
	}

	remaining := ClockSeconds(g.TimeRemain)
	if g.TimeRemain != "" {
		if remaining <= s.weights.LateSeconds {
			tags = append(tags, "late-period")
		}
		if remaining <= s.weights.BuzzerSeconds {
			tags = append(tags, "buzzer-beater")
		}
	}

	if g.Period == regulationPeriods {
		tags = append(tags, "third-period")
	}

	tags = append(tags, fmt.Sprintf("period:%d", g.Period))
	tags = append(tags, fmt.Sprintf("matchup:%s-vs-%s", g.GoalForTeam, g.GoalAgainstTeam))

	return tags
}

// filterTags builds the exact-match short codes used for server-side equality
// filtering: the scoring team tricode and the scoring player ID.
func (s *Scorer) filterTags(g *models.GoalEvent) []string {
	tags := []string{g.GoalForTeam}
	if g.Scorer.ID != "" {
		tags = append(tags, g.Scorer.ID)
	}
	return tags
}
