package scoring

// Weights is the importance-score rule table. The exact business weighting is
// tunable policy, so every value can be overridden from configuration.
type Weights struct {
	Base         int `yaml:"base"`
	GameWinner   int `yaml:"game_winner"`
	TyingGoal    int `yaml:"tying_goal"`
	GoAheadGoal  int `yaml:"go_ahead_goal"`
	Insurance    int `yaml:"insurance"`
	CloseGame    int `yaml:"close_game"`
	LatePeriod   int `yaml:"late_period"`
	BuzzerBeater int `yaml:"buzzer_beater"`
	ThirdPeriod  int `yaml:"third_period"`
	Overtime     int `yaml:"overtime"`
	Shootout     int `yaml:"shootout"`
	PowerPlay    int `yaml:"power_play"`
	ShortHanded  int `yaml:"short_handed"`
	PenaltyShot  int `yaml:"penalty_shot"`
	EmptyNet     int `yaml:"empty_net"`
	FirstGoal    int `yaml:"first_goal"`

	// LateSeconds and BuzzerSeconds are the remaining-time thresholds for the
	// late-period and buzzer-beater bonuses.
	LateSeconds   int `yaml:"late_seconds"`
	BuzzerSeconds int `yaml:"buzzer_seconds"`

	// MinScore floors the final score (an empty-net penalty can otherwise
	// drive it to zero).
	MinScore int `yaml:"min_score"`
}

// DefaultWeights returns the standard rule table.
func DefaultWeights() Weights {
	return Weights{
		Base:          1,
		GameWinner:    10,
		TyingGoal:     7,
		GoAheadGoal:   6,
		Insurance:     2,
		CloseGame:     2,
		LatePeriod:    3,
		BuzzerBeater:  2,
		ThirdPeriod:   1,
		Overtime:      5,
		Shootout:      3,
		PowerPlay:     1,
		ShortHanded:   4,
		PenaltyShot:   3,
		EmptyNet:      -1,
		FirstGoal:     1,
		LateSeconds:   120,
		BuzzerSeconds: 30,
		MinScore:      1,
	}
}
