package models

import "time"

// DateVerdict classifies a processed date. A date lives in exactly one
// verdict set at any time.
type DateVerdict string

const (
	// DateCompleted means every game on the date reached FINAL and all of its
	// goals were published.
	DateCompleted DateVerdict = "completed"
	// DateInProgress means games are still pending or at least one goal
	// failed to publish; the date is retried on the next run.
	DateInProgress DateVerdict = "in_progress"
	// DateFailed means the schedule source itself could not be reached for
	// the date.
	DateFailed DateVerdict = "failed"
)

// DateRecord is the per-date bookkeeping entry inside ProgressState. Owned
// exclusively by the progress tracker and mutated only after a full date pass.
type DateRecord struct {
	Date           string      `json:"date"`
	Classification DateVerdict `json:"classification"`
	FinishedGames  int         `json:"finished_game_count"`
	TotalGames     int         `json:"total_game_count"`
	LastCheckedAt  time.Time   `json:"last_checked_at"`
}

// ProgressStats are cumulative counters across all runs.
type ProgressStats struct {
	TotalGoals    int            `json:"totalGoals"`
	GoalsByTeam   map[string]int `json:"goalsByTeam"`
	GoalsByPlayer map[string]int `json:"goalsByPlayer"`
}

// ProgressState is the only state that outlives a single run. It is loaded
// once at run start, mutated in memory per date, and flushed after every date
// so a crash loses at most one date's progress.
//
// The three date lists are pairwise disjoint at all times.
type ProgressState struct {
	CompletedDates  []string              `json:"completed_dates"`
	InProgressDates []string              `json:"in_progress_dates"`
	FailedDates     []string              `json:"failed_dates"`
	DateRecords     map[string]DateRecord `json:"date_records,omitempty"`
	Stats           ProgressStats         `json:"stats"`
	LastUpdated     time.Time             `json:"last_updated"`
}

// NewProgressState returns an empty state with initialized maps.
func NewProgressState() *ProgressState {
	return &ProgressState{
		CompletedDates:  []string{},
		InProgressDates: []string{},
		FailedDates:     []string{},
		DateRecords:     map[string]DateRecord{},
		Stats: ProgressStats{
			GoalsByTeam:   map[string]int{},
			GoalsByPlayer: map[string]int{},
		},
	}
}
