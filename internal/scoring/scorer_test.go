package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalfeed/scraper/internal/models"
)

func homeGoal(home, away, period int, timeRemain string) *models.GoalEvent {
	prevHome, prevAway := home-1, away
	return &models.GoalEvent{
		GameID:          2026020001,
		EventID:         100,
		GoalID:          "2026020001_100",
		Period:          period,
		PeriodType:      "REG",
		TimeRemain:      timeRemain,
		GoalForTeam:     "TOR",
		GoalAgainstTeam: "MTL",
		HomeTeam:        "TOR",
		AwayTeam:        "MTL",
		IsHomeGoal:      true,
		HomeScore:       home,
		AwayScore:       away,
		PrevHomeScore:   prevHome,
		PrevAwayScore:   prevAway,
		ShotType:        "wrist",
		Strength:        "even",
		GoalModifier:    "even-strength",
		Scorer:          models.PlayerRef{ID: "8478402", FullName: "Auston Matthews"},
	}
}

func TestScoreGameOpeningGoal(t *testing.T) {
	g := homeGoal(1, 0, 1, "12:30")

	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	// base 1 + go-ahead 6 + close 2 + first goal 1
	assert.Equal(t, 10, g.ImportanceScore)
	assert.True(t, g.IsGoAheadGoal)
	assert.False(t, g.IsTyingGoal)
}

func TestScoreGameOvertimeWinner(t *testing.T) {
	g := homeGoal(3, 2, 4, "01:15")
	g.PeriodType = PeriodTypeOvertime
	g.IsGameWinner = true

	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	// base 1 + game-winner 10 + go-ahead 6 + close 2 + late 3 + overtime 5
	assert.Equal(t, 27, g.ImportanceScore)
	assert.True(t, g.IsOvertime)
	assert.Contains(t, g.InterestTags, "game-winner")
	assert.Contains(t, g.InterestTags, "overtime")
}

func TestScoreGameEmptyNetFloor(t *testing.T) {
	g := homeGoal(2, 0, 1, "15:00")
	g.GoalModifier = ModifierEmptyNet

	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	// base 1 + empty-net -1 would hit zero; floored to min score
	assert.Equal(t, 1, g.ImportanceScore)
	assert.True(t, g.IsEmptyNet)
	assert.Contains(t, g.InterestTags, "empty-net")
}

func TestScoreGameShortHandedBuzzerTying(t *testing.T) {
	g := &models.GoalEvent{
		Period:          3,
		PeriodType:      "REG",
		TimeRemain:      "00:20",
		GoalForTeam:     "MTL",
		GoalAgainstTeam: "TOR",
		HomeTeam:        "TOR",
		AwayTeam:        "MTL",
		IsHomeGoal:      false,
		HomeScore:       3,
		AwayScore:       3,
		PrevHomeScore:   3,
		PrevAwayScore:   2,
		ShotType:        "snap",
		Strength:        StrengthShortHanded,
		GoalModifier:    "even-strength",
	}

	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	// base 1 + tying 7 + close 2 + late 3 + buzzer 2 + third period 1 + shorthanded 4
	assert.Equal(t, 20, g.ImportanceScore)
	assert.True(t, g.IsTyingGoal)
	assert.Contains(t, g.InterestTags, "tying-goal")
	assert.Contains(t, g.InterestTags, "comeback")
	assert.Contains(t, g.InterestTags, "buzzer-beater")
	assert.Contains(t, g.InterestTags, "shorthanded")
}

func TestScoreGameShootout(t *testing.T) {
	g := homeGoal(1, 0, 5, "")
	g.PeriodType = PeriodTypeShootout
	g.IsGameWinner = true

	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	assert.True(t, g.IsShootout)
	assert.True(t, g.IsOvertime)
	assert.Contains(t, g.InterestTags, "shootout")
}

func TestScoreGameDeterministic(t *testing.T) {
	build := func() *models.GoalEvent {
		g := homeGoal(2, 2, 3, "04:10")
		g.IsGameWinner = false
		return g
	}

	first, second := build(), build()
	scorer := NewScorer(DefaultWeights())
	scorer.ScoreGame([]*models.GoalEvent{first})
	scorer.ScoreGame([]*models.GoalEvent{second})

	require.Equal(t, first.ImportanceScore, second.ImportanceScore)
	require.Equal(t, first.InterestTags, second.InterestTags)
	require.Equal(t, first.FilterTags, second.FilterTags)
}

func TestInterestTagOrder(t *testing.T) {
	g := homeGoal(1, 0, 1, "12:30")
	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})

	want := []string{
		"team:TOR",
		"opponent:MTL",
		"player:8478402",
		"shot:wrist",
		"go-ahead-goal",
		"comeback",
		"close-game",
		"first-goal",
		"period:1",
		"matchup:TOR-vs-MTL",
	}
	assert.Equal(t, want, g.InterestTags)
}

func TestFilterTags(t *testing.T) {
	g := homeGoal(1, 0, 1, "12:30")
	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{g})
	assert.Equal(t, []string{"TOR", "8478402"}, g.FilterTags)

	anon := homeGoal(1, 0, 1, "12:30")
	anon.Scorer = models.PlayerRef{}
	NewScorer(DefaultWeights()).ScoreGame([]*models.GoalEvent{anon})
	assert.Equal(t, []string{"TOR"}, anon.FilterTags)
}

func TestClockSeconds(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"12:30", 750},
		{"00:30", 30},
		{"0:05", 5},
		{"", 0},
		{"garbage", 0},
		{"x:30", 0},
	}

	for _, tt := range tests {
		if got := ClockSeconds(tt.clock); got != tt.want {
			t.Errorf("ClockSeconds(%q) = %d, want %d", tt.clock, got, tt.want)
		}
	}
}
