package nhl

import "encoding/json"

// LocalizedString decodes NHL API fields that arrive either as a bare string
// or as a {"default": ..., "fr": ...} object.
type LocalizedString struct {
	Default string `json:"default"`
	FR      string `json:"fr,omitempty"`
}

// UnmarshalJSON accepts both representations.
func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Default = s
		return nil
	}

	type alias LocalizedString
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = LocalizedString(a)
	return nil
}

// ClipID decodes video clip identifiers that arrive either as a bare number
// or as a {"default": ..., "fr": ...} object. Zero means absent.
type ClipID struct {
	Default int64 `json:"default"`
	FR      int64 `json:"fr,omitempty"`
}

// UnmarshalJSON accepts both representations.
func (c *ClipID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		c.Default = n
		return nil
	}

	type alias ClipID
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = ClipID(a)
	return nil
}

// IsZero reports whether no clip identifier is present.
func (c ClipID) IsZero() bool {
	return c.Default == 0 && c.FR == 0
}

// Team is a team reference on a scheduled game.
type Team struct {
	ID     int             `json:"id"`
	Abbrev string          `json:"abbrev"`
	Name   LocalizedString `json:"name"`
}

// ScheduledGame is one game on a date's schedule.
type ScheduledGame struct {
	ID           int             `json:"id"`
	GameState    string          `json:"gameState"`
	GameDate     string          `json:"gameDate"`
	StartTimeUTC string          `json:"startTimeUTC"`
	Venue        LocalizedString `json:"venue"`
	HomeTeam     Team            `json:"homeTeam"`
	AwayTeam     Team            `json:"awayTeam"`
}

// GameDay groups a date's games inside the schedule response.
type GameDay struct {
	Date  string          `json:"date"`
	Games []ScheduledGame `json:"games"`
}

// ScheduleResponse is the /schedule/{date} payload.
type ScheduleResponse struct {
	GameWeek []GameDay `json:"gameWeek"`
}

// GamesOn returns the games scheduled for the given date, if any. The
// schedule endpoint returns a whole week; only the requested day matters.
func (r *ScheduleResponse) GamesOn(date string) []ScheduledGame {
	for _, day := range r.GameWeek {
		if day.Date == date {
			return day.Games
		}
	}
	return nil
}

// PlayDetails carries the scoring details of a goal play. Optional fields are
// pointers so absent values stay distinguishable from zero.
type PlayDetails struct {
	ScoringPlayerID int    `json:"scoringPlayerId"`
	Assist1PlayerID int    `json:"assist1PlayerId"`
	Assist2PlayerID int    `json:"assist2PlayerId"`
	GoalieInNetID   int    `json:"goalieInNetId"`
	EventOwnerTeam  int    `json:"eventOwnerTeamId"`
	HomeScore       int    `json:"homeScore"`
	AwayScore       int    `json:"awayScore"`
	ShotType        string `json:"shotType"`
	XCoord          *int   `json:"xCoord,omitempty"`
	YCoord          *int   `json:"yCoord,omitempty"`
	ZoneCode        string `json:"zoneCode"`
	GoalModifier    string `json:"goalModifier"`
	Strength        string `json:"strength"`
}

// PeriodDescriptor identifies a play's period.
type PeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

// Play is one play-by-play event. Only typeDescKey "goal" is consumed.
type Play struct {
	EventID          int              `json:"eventId"`
	TypeDescKey      string           `json:"typeDescKey"`
	PeriodDescriptor PeriodDescriptor `json:"periodDescriptor"`
	TimeInPeriod     string           `json:"timeInPeriod"`
	TimeRemaining    string           `json:"timeRemaining"`
	SituationCode    string           `json:"situationCode"`
	HighlightClip    ClipID           `json:"highlightClip"`
	DiscreteClip     ClipID           `json:"discreteClip"`
	Details          PlayDetails      `json:"details"`
}

// IsGoal reports whether the play is a scoring event.
func (p *Play) IsGoal() bool {
	return p.TypeDescKey == "goal"
}

// RosterSpot is one player on a game's combined roster.
type RosterSpot struct {
	PlayerID      int             `json:"playerId"`
	TeamID        int             `json:"teamId"`
	FirstName     LocalizedString `json:"firstName"`
	LastName      LocalizedString `json:"lastName"`
	SweaterNumber int             `json:"sweaterNumber"`
	PositionCode  string          `json:"positionCode"`
	Headshot      string          `json:"headshot"`
}

// PlayByPlayResponse is the /gamecenter/{id}/play-by-play payload.
type PlayByPlayResponse struct {
	Plays       []Play       `json:"plays"`
	RosterSpots []RosterSpot `json:"rosterSpots"`
	HomeTeam    Team         `json:"homeTeam"`
	AwayTeam    Team         `json:"awayTeam"`
}

// LandingGoal is a goal entry in the gamecenter landing summary, the fallback
// source for video clip identifiers.
type LandingGoal struct {
	EventID       int    `json:"eventId"`
	HighlightClip ClipID `json:"highlightClip"`
	DiscreteClip  ClipID `json:"discreteClip"`
}

// LandingPeriod groups the landing summary's goals by period.
type LandingPeriod struct {
	Goals []LandingGoal `json:"goals"`
}

// LandingResponse is the /gamecenter/{id}/landing payload, reduced to the
// scoring summary.
type LandingResponse struct {
	Summary struct {
		Scoring []LandingPeriod `json:"scoring"`
	} `json:"summary"`
}

// ClipLookup flattens the landing summary into eventId -> clip identifiers.
func (r *LandingResponse) ClipLookup() map[int]LandingGoal {
	lookup := make(map[int]LandingGoal)
	for _, period := range r.Summary.Scoring {
		for _, goal := range period.Goals {
			lookup[goal.EventID] = goal
		}
	}
	return lookup
}
