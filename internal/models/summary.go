package models

import "time"

// DateDetail records the outcome of one date within a run.
type DateDetail struct {
	Date     string     `json:"date"`
	Status   string     `json:"status"`
	Goals    int        `json:"goals"`
	Uploaded int        `json:"uploaded"`
	Failed   int        `json:"failed"`
	Games    *DayStatus `json:"games,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// RunSummary is returned by every scrape invocation, including partial
// failures. Only a progress-store failure aborts a run without one.
type RunSummary struct {
	RunID          string       `json:"run_id"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	DatesChecked   int          `json:"checked"`
	NewGoals       int          `json:"new_goals"`
	Uploaded       int          `json:"uploaded"`
	DaysCompleted  int          `json:"days_completed"`
	DaysInProgress int          `json:"days_in_progress"`
	Details        []DateDetail `json:"details"`
	Errors         []string     `json:"errors"`
}

// StartupStatus tracks the background scrape launched at service start.
type StartupStatus struct {
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Status      string      `json:"status"`
	DaysBack    int         `json:"days_back"`
	Error       string      `json:"error,omitempty"`
	Results     *RunSummary `json:"results,omitempty"`
}

// Startup status values.
const (
	StartupRunning   = "running"
	StartupCompleted = "completed"
	StartupFailed    = "failed"
)
