package models

// GameState is the classified lifecycle state of a single game. Within a day
// a game moves FUTURE -> LIVE -> FINAL and never regresses.
type GameState string

const (
	GameStateFuture GameState = "FUTURE"
	GameStateLive   GameState = "LIVE"
	GameStateFinal  GameState = "FINAL"
)

// GameStatus is the classified state of one scheduled game.
type GameStatus struct {
	GameID   int       `json:"game_id"`
	Date     string    `json:"date"`
	State    GameState `json:"state"`
	RawState string    `json:"raw_state"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// DayStatus aggregates a date's games into a completion verdict.
// AllFinished is true iff every game is FINAL; a date with zero scheduled
// games has nothing to wait on and is immediately finished.
type DayStatus struct {
	Date        string       `json:"date"`
	AllFinished bool         `json:"all_finished"`
	TotalGames  int          `json:"total_games"`
	Finished    int          `json:"finished_games"`
	Live        int          `json:"live_games"`
	Future      int          `json:"future_games"`
	Games       []GameStatus `json:"games"`
}
