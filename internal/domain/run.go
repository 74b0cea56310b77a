package domain

import "time"

type RunState string

const (
	RunRunning   RunState = "running"
	RunSucceeded RunState = "succeeded"
	RunFailed    RunState = "failed"
)

// Run is one recorded execution of the organization engine over a
// configuration document. Counts are filled in when the run finishes.
type Run struct {
	ID            string
	ConfigPath    string
	State         RunState
	Workers       int
	GroupCount    int
	ConflictCount int
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Finished reports whether the run reached a terminal state.
func (r *Run) Finished() bool {
	return r.State == RunSucceeded || r.State == RunFailed
}

// ShortID returns a truncated run ID for display.
func (r *Run) ShortID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}
