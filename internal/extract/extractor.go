// Package extract converts one game's detail payload into enriched goal
// events with roster-resolved identities and video clip references.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goalfeed/scraper/internal/logger"
	"github.com/goalfeed/scraper/internal/models"
	"github.com/goalfeed/scraper/internal/nhl"
)

// Extractor builds GoalEvents from play-by-play payloads. Roster and clip
// lookups are per-game, built fresh for each call and discarded after.
type Extractor struct {
	logger logger.Logger
}

// New creates an Extractor.
func New(log logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// ExtractGoals emits one GoalEvent per scoring play, in chronological order,
// with game-winner and piling-on flags applied across the whole game.
// clips is the landing-summary fallback for video ids and may be nil.
//
// A roster-lookup miss nulls the display fields but never drops the goal;
// downstream consumers must not silently lose a scoring event.
func (e *Extractor) ExtractGoals(game nhl.ScheduledGame, pbp *nhl.PlayByPlayResponse, clips map[int]nhl.LandingGoal) []*models.GoalEvent {
	roster := buildRosterLookup(pbp.RosterSpots)

	var goalPlays []nhl.Play
	for _, play := range pbp.Plays {
		if play.IsGoal() {
			goalPlays = append(goalPlays, play)
		}
	}
	if len(goalPlays) == 0 {
		return nil
	}

	winnerID, pilingOn := e.determineGameWinner(game, goalPlays)

	goals := make([]*models.GoalEvent, 0, len(goalPlays))
	for i := range goalPlays {
		goal := e.buildGoal(game, &goalPlays[i], roster, clips)
		goal.IsGameWinner = goal.GoalID == winnerID
		_, goal.IsPilingOn = pilingOn[goal.GoalID]
		goals = append(goals, goal)
	}

	return goals
}

func (e *Extractor) buildGoal(game nhl.ScheduledGame, play *nhl.Play, roster map[int]nhl.RosterSpot, clips map[int]nhl.LandingGoal) *models.GoalEvent {
	details := play.Details

	isHomeGoal := details.EventOwnerTeam == game.HomeTeam.ID
	forTeam, againstTeam := game.AwayTeam.Abbrev, game.HomeTeam.Abbrev
	if isHomeGoal {
		forTeam, againstTeam = game.HomeTeam.Abbrev, game.AwayTeam.Abbrev
	}

	prevHome, prevAway := details.HomeScore, details.AwayScore
	if isHomeGoal {
		prevHome--
	} else {
		prevAway--
	}

	scorer := resolvePlayer(roster, details.ScoringPlayerID, forTeam)
	if scorer.FullName == "" && details.ScoringPlayerID != 0 {
		e.logger.Warn("roster lookup miss for scoring player",
			logger.Int("game_id", game.ID),
			logger.Int("event_id", play.EventID),
			logger.Int("player_id", details.ScoringPlayerID),
		)
	}

	goal := &models.GoalEvent{
		GameID:  game.ID,
		EventID: play.EventID,
		GoalID:  models.NewGoalID(game.ID, play.EventID),

		Period:       play.PeriodDescriptor.Number,
		PeriodType:   play.PeriodDescriptor.PeriodType,
		TimeInPeriod: play.TimeInPeriod,
		TimeRemain:   play.TimeRemaining,
		GameDate:     game.GameDate,
		StartTimeUTC: game.StartTimeUTC,

		Scorer:  scorer,
		Assists: resolveAssists(roster, details, forTeam),

		GoalForTeam:     forTeam,
		GoalAgainstTeam: againstTeam,
		HomeTeam:        game.HomeTeam.Abbrev,
		AwayTeam:        game.AwayTeam.Abbrev,
		IsHomeGoal:      isHomeGoal,
		HomeScore:       details.HomeScore,
		AwayScore:       details.AwayScore,
		PrevHomeScore:   prevHome,
		PrevAwayScore:   prevAway,

		ShotType: shotTypeOrUnknown(details.ShotType),
		Shot: models.ShotDetails{
			XCoord:   details.XCoord,
			YCoord:   details.YCoord,
			ZoneCode: details.ZoneCode,
		},

		Strength:     strengthOrEven(details.Strength),
		GoalModifier: modifierOrDefault(details.GoalModifier),

		Venue:         game.Venue.Default,
		SituationCode: play.SituationCode,
	}

	if details.GoalieInNetID != 0 {
		if goalie, ok := roster[details.GoalieInNetID]; ok {
			ref := rosterToRef(goalie, againstTeam)
			goal.Goalie = &ref
		}
	}

	goal.Clips = resolveClips(play, clips)
	goal.Description = describeGoal(goal)

	return goal
}

func resolveClips(play *nhl.Play, clips map[int]nhl.LandingGoal) models.ClipIDs {
	highlight, discrete := play.HighlightClip, play.DiscreteClip

	// Play-by-play wins; the landing summary is a best-effort fallback.
	if highlight.IsZero() && discrete.IsZero() && clips != nil {
		if cached, ok := clips[play.EventID]; ok {
			highlight, discrete = cached.HighlightClip, cached.DiscreteClip
		}
	}

	return models.ClipIDs{
		Highlight:   highlight.Default,
		HighlightFR: highlight.FR,
		Discrete:    discrete.Default,
		DiscreteFR:  discrete.FR,
	}
}

func buildRosterLookup(spots []nhl.RosterSpot) map[int]nhl.RosterSpot {
	roster := make(map[int]nhl.RosterSpot, len(spots))
	for _, spot := range spots {
		if spot.PlayerID != 0 {
			roster[spot.PlayerID] = spot
		}
	}
	return roster
}

// resolvePlayer looks up a player and fails soft: an unresolved id keeps the
// id but leaves the display fields empty.
func resolvePlayer(roster map[int]nhl.RosterSpot, playerID int, teamAbbrev string) models.PlayerRef {
	if playerID == 0 {
		return models.PlayerRef{}
	}
	spot, ok := roster[playerID]
	if !ok {
		return models.PlayerRef{
			ID:         strconv.Itoa(playerID),
			TeamAbbrev: teamAbbrev,
		}
	}
	return rosterToRef(spot, teamAbbrev)
}

func rosterToRef(spot nhl.RosterSpot, teamAbbrev string) models.PlayerRef {
	full := strings.TrimSpace(spot.FirstName.Default + " " + spot.LastName.Default)
	return models.PlayerRef{
		ID:            strconv.Itoa(spot.PlayerID),
		FirstName:     spot.FirstName.Default,
		LastName:      spot.LastName.Default,
		FullName:      full,
		SweaterNumber: spot.SweaterNumber,
		Position:      spot.PositionCode,
		Headshot:      spot.Headshot,
		TeamAbbrev:    teamAbbrev,
	}
}

// resolveAssists resolves up to two assists. Unresolved assist ids are
// dropped; assists are display-only.
func resolveAssists(roster map[int]nhl.RosterSpot, details nhl.PlayDetails, teamAbbrev string) []models.AssistRef {
	assists := make([]models.AssistRef, 0, 2)
	for _, id := range []int{details.Assist1PlayerID, details.Assist2PlayerID} {
		if id == 0 {
			continue
		}
		spot, ok := roster[id]
		if !ok {
			continue
		}
		slot := "primary"
		if len(assists) > 0 {
			slot = "secondary"
		}
		assists = append(assists, models.AssistRef{
			PlayerRef: rosterToRef(spot, teamAbbrev),
			Type:      slot,
		})
	}
	return assists
}

func describeGoal(g *models.GoalEvent) string {
	name := g.Scorer.FullName
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("%s (%s) - %s", name, g.GoalForTeam, g.ShotType)
}

func shotTypeOrUnknown(shotType string) string {
	if shotType == "" {
		return "unknown"
	}
	return shotType
}

func strengthOrEven(strength string) string {
	if strength == "" {
		return "even"
	}
	return strength
}

func modifierOrDefault(modifier string) string {
	if modifier == "" {
		return "even-strength"
	}
	return modifier
}
