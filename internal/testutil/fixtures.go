package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/olabarga/labplan/internal/domain"
)

// Run options
type RunOption func(*domain.Run)

func WithRunState(s domain.RunState) RunOption {
	return func(r *domain.Run) {
		r.State = s
	}
}

func WithWorkers(n int) RunOption {
	return func(r *domain.Run) {
		r.Workers = n
	}
}

func WithStartedAt(t time.Time) RunOption {
	return func(r *domain.Run) {
		r.StartedAt = t.UTC().Truncate(time.Second)
	}
}

func WithCounts(groups, conflicts int) RunOption {
	return func(r *domain.Run) {
		r.GroupCount = groups
		r.ConflictCount = conflicts
	}
}

func WithFinishedAt(t time.Time) RunOption {
	return func(r *domain.Run) {
		ts := t.UTC().Truncate(time.Second)
		r.FinishedAt = &ts
	}
}

// NewTestRun builds a running, unfinished run. Timestamps are truncated
// to whole seconds so they survive the RFC3339 round trip through the
// database.
func NewTestRun(configPath string, opts ...RunOption) *domain.Run {
	r := &domain.Run{
		ID:         uuid.New().String(),
		ConfigPath: configPath,
		State:      domain.RunRunning,
		Workers:    1,
		StartedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
