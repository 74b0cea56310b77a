// Package assign seats students, appoints professors and confirms
// session dates on the lab group instances the core pipeline produced.
// Unlike the pipeline phases, assignment phases always complete: what
// cannot be placed cleanly becomes a structured conflict instead of a
// failure.
package assign

import (
	"context"
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/engine"
)

// Phases lists the phases this package runs, in execution order.
var Phases = []domain.Phase{
	domain.PhaseStudents,
	domain.PhaseProfessors,
	domain.PhaseTimetable,
}

// Outcome carries the assignment phases' states alongside everything
// they could not place cleanly.
type Outcome struct {
	States    map[domain.Phase]domain.PhaseState
	Conflicts []domain.Conflict
	Notices   []string
}

// Assigner mutates the instances in place; callers run it once, on the
// result of a fully succeeded pipeline.
type Assigner struct {
	store    *config.Store
	resolver *engine.ClassroomResolver
	observer engine.PhaseObserver
}

// NewAssigner builds an assigner over the same store the pipeline read.
// A nil observer is replaced with a no-op.
func NewAssigner(store *config.Store, observer engine.PhaseObserver) *Assigner {
	if observer == nil {
		observer = engine.NoopPhaseObserver{}
	}
	return &Assigner{
		store:    store,
		resolver: engine.NewClassroomResolver(store),
		observer: observer,
	}
}

// Run executes the assignment phases over the pipeline result. The only
// error returned is context cancellation between phases.
func (a *Assigner) Run(ctx context.Context, res *engine.Result) (*Outcome, error) {
	out := &Outcome{States: map[domain.Phase]domain.PhaseState{}}
	for _, phase := range Phases {
		out.States[phase] = domain.StatePending
	}

	type phaseRun struct {
		phase domain.Phase
		run   func() ([]domain.Conflict, []string)
	}
	phases := []phaseRun{
		{domain.PhaseStudents, func() ([]domain.Conflict, []string) {
			return NewStudentAssigner(a.store).Run(res.Groups)
		}},
		{domain.PhaseProfessors, func() ([]domain.Conflict, []string) {
			return NewProfessorAssigner(a.store).Run(res.Groups), nil
		}},
		{domain.PhaseTimetable, func() ([]domain.Conflict, []string) {
			return NewTimetabler(a.store, a.resolver).Run(res.BySlot), nil
		}},
	}

	for _, pr := range phases {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		out.States[pr.phase] = domain.StateRunning
		phaseStart := time.Now()
		conflicts, notices := pr.run()

		out.Conflicts = append(out.Conflicts, conflicts...)
		out.Notices = append(out.Notices, notices...)
		out.States[pr.phase] = domain.StateSucceeded

		a.observer.ObservePhase(ctx, engine.PhaseEvent{
			Phase:    pr.phase,
			State:    domain.StateSucceeded,
			Duration: time.Since(phaseStart),
			Warnings: len(conflicts),
			Units:    len(res.Groups),
		})
	}
	return out, nil
}
