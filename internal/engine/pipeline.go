package engine

import (
	"context"
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// Result bundles everything a pipeline run produced, including partial
// data from a run that failed part-way.
type Result struct {
	States     map[domain.Phase]domain.PhaseState
	Diags      domain.DiagnosticList
	MaxLetters map[domain.GroupKey]int
	Dates      map[domain.DateKey][]time.Time
	Rooms      map[domain.SubjectKey]RoomChoice
	Groups     []*domain.LabGroup
	BySlot     map[domain.SlotKey][]*domain.LabGroup
	Elapsed    time.Duration
}

// OK reports whether every phase that ran succeeded and none was left
// pending.
func (r *Result) OK() bool {
	for _, phase := range domain.EnginePhases {
		if r.States[phase] != domain.StateSucceeded {
			return false
		}
	}
	return true
}

// Pipeline runs the four organization phases in order. A critical
// diagnostic fails the producing phase at its end and leaves the
// remaining phases pending; the caller must fix the document and re-run
// from the start. The pipeline reads the store and never mutates it, so
// two runs over the same document yield identical results.
type Pipeline struct {
	store    *config.Store
	observer PhaseObserver
	workers  int
}

// NewPipeline builds a pipeline. workers bounds the per-subject fan-out
// of the validation and date phases; values below 2 keep those loops
// serial. A nil observer is replaced with a no-op.
func NewPipeline(store *config.Store, observer PhaseObserver, workers int) *Pipeline {
	return &Pipeline{store: store, observer: observerOrNoop(observer), workers: workers}
}

// Run executes the phases. The only error returned is context
// cancellation between phases; domain findings land in Result.Diags.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{States: map[domain.Phase]domain.PhaseState{}}
	for _, phase := range domain.EnginePhases {
		res.States[phase] = domain.StatePending
	}

	type phaseRun struct {
		phase domain.Phase
		run   func() (bool, int)
	}
	phases := []phaseRun{
		{domain.PhaseValidation, func() (bool, int) {
			ok, maxLetters, diags := NewValidator(p.store, p.workers).Run()
			res.MaxLetters = maxLetters
			res.Diags = append(res.Diags, diags...)
			return ok, len(maxLetters)
		}},
		{domain.PhaseDates, func() (bool, int) {
			ok, dates, diags := NewDateCalculator(p.store, p.workers).Run(res.MaxLetters)
			res.Dates = dates
			res.Diags = append(res.Diags, diags...)
			return ok, len(dates)
		}},
		{domain.PhaseClassrooms, func() (bool, int) {
			ok, rooms, diags := NewClassroomResolver(p.store).Run()
			res.Rooms = rooms
			res.Diags = append(res.Diags, diags...)
			return ok, len(rooms)
		}},
		{domain.PhaseGroups, func() (bool, int) {
			ok, groups, bySlot, diags := NewGroupInstantiator(p.store).Run(res.Dates, res.Rooms)
			res.Groups = groups
			res.BySlot = bySlot
			res.Diags = append(res.Diags, diags...)
			return ok, len(groups)
		}},
	}

	for _, pr := range phases {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		res.States[pr.phase] = domain.StateRunning
		before := len(res.Diags)
		phaseStart := time.Now()
		ok, units := pr.run()

		state := domain.StateSucceeded
		if !ok {
			state = domain.StateFailed
		}
		res.States[pr.phase] = state

		produced := res.Diags[before:]
		p.observer.ObservePhase(ctx, PhaseEvent{
			Phase:     pr.phase,
			State:     state,
			Duration:  time.Since(phaseStart),
			Criticals: len(produced.Criticals()),
			Warnings:  len(produced.Warnings()),
			Units:     units,
		})

		if !ok {
			break
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}
