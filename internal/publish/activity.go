package publish

import (
	"github.com/goalfeed/scraper/internal/models"
)

// Activity is the flattened feed payload for one goal. Field names form
// the public feed contract and must stay stable.
type Activity struct {
	Actor     string `json:"actor"`
	Verb      string `json:"verb"`
	Object    string `json:"object"`
	ForeignID string `json:"foreign_id"`
	Time      string `json:"time,omitempty"`

	GameID       int    `json:"game_id"`
	EventID      int    `json:"event_id"`
	GameDate     string `json:"game_date"`
	Period       int    `json:"period"`
	PeriodType   string `json:"period_type"`
	TimeInPeriod string `json:"time_in_period"`

	Team         string `json:"team"`
	OpposingTeam string `json:"opposing_team"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`

	ScorerID   string             `json:"scorer_id,omitempty"`
	ScorerName string             `json:"scorer_name,omitempty"`
	Assists    []models.AssistRef `json:"assists,omitempty"`

	ShotType string `json:"shot_type"`
	Strength string `json:"strength"`
	Modifier string `json:"goal_modifier"`

	GameWinner  bool `json:"game_winner"`
	Overtime    bool `json:"overtime"`
	Shootout    bool `json:"shootout"`
	EmptyNet    bool `json:"empty_net"`
	PenaltyShot bool `json:"penalty_shot"`

	HighlightClip int64 `json:"highlight_clip,omitempty"`
	DiscreteClip  int64 `json:"discrete_clip,omitempty"`

	ImportanceScore int      `json:"importance_score"`
	InterestTags    []string `json:"interest_tags"`
	FilterTags      []string `json:"filter_tags"`

	Description string `json:"description,omitempty"`
	Venue       string `json:"venue,omitempty"`
}

// buildActivity flattens a goal event into its feed activity. The actor is
// the scoring team; the scorer travels in the scorer_id/scorer_name fields.
func buildActivity(goal *models.GoalEvent) *Activity {
	eventTime := goal.StartTimeUTC
	if eventTime == "" {
		eventTime = goal.GameDate
	}

	return &Activity{
		Actor:     "team:" + goal.GoalForTeam,
		Verb:      "score",
		Object:    goal.ExternalID(),
		ForeignID: goal.ExternalID(),
		Time:      eventTime,

		GameID:       goal.GameID,
		EventID:      goal.EventID,
		GameDate:     goal.GameDate,
		Period:       goal.Period,
		PeriodType:   goal.PeriodType,
		TimeInPeriod: goal.TimeInPeriod,

		Team:         goal.GoalForTeam,
		OpposingTeam: goal.GoalAgainstTeam,
		HomeTeam:     goal.HomeTeam,
		AwayTeam:     goal.AwayTeam,
		HomeScore:    goal.HomeScore,
		AwayScore:    goal.AwayScore,

		ScorerID:   goal.Scorer.ID,
		ScorerName: goal.Scorer.FullName,
		Assists:    goal.Assists,

		ShotType: goal.ShotType,
		Strength: goal.Strength,
		Modifier: goal.GoalModifier,

		GameWinner:  goal.IsGameWinner,
		Overtime:    goal.IsOvertime,
		Shootout:    goal.IsShootout,
		EmptyNet:    goal.IsEmptyNet,
		PenaltyShot: goal.IsPenaltyShot,

		HighlightClip: goal.Clips.Highlight,
		DiscreteClip:  goal.Clips.Discrete,

		ImportanceScore: goal.ImportanceScore,
		InterestTags:    goal.InterestTags,
		FilterTags:      goal.FilterTags,

		Description: goal.Description,
		Venue:       goal.Venue,
	}
}
