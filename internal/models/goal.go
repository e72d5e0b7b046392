// Package models defines the domain types shared across the scrape pipeline.
package models

import "fmt"

// PlayerRef is a roster-resolved player identity. Fields are empty (not
// dropped) when the roster lookup misses, so a goal is never lost to a
// missing player record.
type PlayerRef struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	FullName      string `json:"full_name"`
	SweaterNumber int    `json:"sweater_number,omitempty"`
	Position      string `json:"position,omitempty"`
	Headshot      string `json:"headshot,omitempty"`
	TeamAbbrev    string `json:"team_abbrev,omitempty"`
}

// AssistRef is a PlayerRef with its assist slot ("primary" or "secondary").
type AssistRef struct {
	PlayerRef
	Type string `json:"type"`
}

// ShotDetails carries shot placement metadata from the play-by-play feed.
type ShotDetails struct {
	XCoord   *int   `json:"x_coord,omitempty"`
	YCoord   *int   `json:"y_coord,omitempty"`
	ZoneCode string `json:"zone_code,omitempty"`
}

// ClipIDs holds the video clip identifiers for a goal: the primary clip and
// regional variants. Zero means no clip is known; absence is not an error.
type ClipIDs struct {
	Highlight   int64 `json:"highlight_clip,omitempty"`
	HighlightFR int64 `json:"highlight_clip_fr,omitempty"`
	Discrete    int64 `json:"discrete_clip,omitempty"`
	DiscreteFR  int64 `json:"discrete_clip_fr,omitempty"`
}

// GoalEvent is one scoring play, fully enriched and scored. Instances are
// owned by the run that produced them until handed to the publisher.
//
// GoalID is unique and stable per game across reprocessing runs, and every
// derived field is computed deterministically from the same inputs, which is
// what keeps republication idempotent.
type GoalEvent struct {
	GameID  int    `json:"game_id"`
	EventID int    `json:"event_id"`
	GoalID  string `json:"goal_id"`

	// Timing
	Period       int    `json:"period"`
	PeriodType   string `json:"period_type"`
	TimeInPeriod string `json:"time_in_period"`
	TimeRemain   string `json:"time_remaining"`
	GameDate     string `json:"game_date"`
	StartTimeUTC string `json:"game_time"`

	// Identities
	Scorer  PlayerRef   `json:"scoring_player"`
	Assists []AssistRef `json:"assists"`
	Goalie  *PlayerRef  `json:"goalie,omitempty"`

	// Teams and score context. Scores are the running totals after this goal.
	GoalForTeam     string `json:"goal_for_team"`
	GoalAgainstTeam string `json:"goal_against_team"`
	HomeTeam        string `json:"home_team"`
	AwayTeam        string `json:"away_team"`
	IsHomeGoal      bool   `json:"is_home_goal"`
	HomeScore       int    `json:"home_score"`
	AwayScore       int    `json:"away_score"`
	PrevHomeScore   int    `json:"-"`
	PrevAwayScore   int    `json:"-"`

	// Shot metadata
	ShotType string      `json:"shot_type"`
	Shot     ShotDetails `json:"shot_details"`

	// Strength context: "even", "powerplay" or "shorthanded", plus the goal
	// modifier ("empty-net", "penalty-shot", ...) when present.
	Strength     string `json:"strength"`
	GoalModifier string `json:"goal_type"`

	// Derived flags
	IsGameWinner  bool `json:"is_game_winner"`
	IsPilingOn    bool `json:"is_piling_on"`
	IsOvertime    bool `json:"is_overtime"`
	IsShootout    bool `json:"is_shootout"`
	IsEmptyNet    bool `json:"is_empty_net"`
	IsPenaltyShot bool `json:"is_penalty_shot"`
	IsTyingGoal   bool `json:"is_tying_goal"`
	IsGoAheadGoal bool `json:"is_go_ahead_goal"`

	Clips ClipIDs `json:"clips"`

	Venue         string `json:"venue,omitempty"`
	Description   string `json:"description,omitempty"`
	SituationCode string `json:"situation_code,omitempty"`

	// Ranking
	ImportanceScore int      `json:"score"`
	InterestTags    []string `json:"interest_tags"`
	FilterTags      []string `json:"filter_tags"`
}

// NewGoalID builds the per-game-unique goal identifier.
func NewGoalID(gameID, eventID int) string {
	return fmt.Sprintf("%d_%d", gameID, eventID)
}

// ExternalID is the single stable identifier used to deduplicate this goal
// across the object collection and every feed it is published to. It never
// changes for a given goal across reprocessing runs.
func (g *GoalEvent) ExternalID() string {
	return "goal:" + g.GoalID
}
