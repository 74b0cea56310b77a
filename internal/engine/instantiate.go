package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// GroupInstantiator runs FASE 4: it materializes one lab group instance
// per (group, weekday, letter, time slot), the concrete schedulable
// units every downstream phase works with.
type GroupInstantiator struct {
	store *config.Store
}

func NewGroupInstantiator(store *config.Store) *GroupInstantiator {
	return &GroupInstantiator{store: store}
}

// Run builds the instances. Date-map keys are visited sorted by group,
// weekday rank and letter, and a group's slots by start time, so label
// sequence numbers are reproducible for a given document. Labels are
// monotonic per base code and never reused.
func (g *GroupInstantiator) Run(
	dates map[domain.DateKey][]time.Time,
	rooms map[domain.SubjectKey]RoomChoice,
) (ok bool, groups []*domain.LabGroup, bySlot map[domain.SlotKey][]*domain.LabGroup, diags domain.DiagnosticList) {
	if len(dates) == 0 {
		diags = append(diags, domain.Diagnostic{
			Phase:    domain.PhaseGroups,
			Severity: domain.SeverityCritical,
			Message:  "no session dates were computed, nothing to schedule",
		})
		return false, nil, nil, diags
	}

	keys := make([]domain.DateKey, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return dateKeyLess(keys[i], keys[j]) })

	bySlot = map[domain.SlotKey][]*domain.LabGroup{}
	counters := map[string]int{}

	for _, key := range keys {
		room, hasRoom := rooms[key.SubjectKey()]
		if !hasRoom {
			diags = append(diags, domain.Diagnostic{
				Phase:    domain.PhaseGroups,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s letter %s skipped: subject %q has no resolved classroom", key.Group, key.Letter, key.Subject),
				Detail:   map[string]any{"semestre": key.Semester, "asignatura": key.Subject, "grupo": key.Group, "letra": key.Letter},
			})
			continue
		}

		cells := g.cellsFor(key)
		if len(cells) == 0 {
			diags = append(diags, domain.Diagnostic{
				Phase:    domain.PhaseGroups,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s letter %s has dates but no %s grid slot references it", key.Group, key.Letter, key.Weekday),
				Detail:   map[string]any{"semestre": key.Semester, "asignatura": key.Subject, "grupo": key.Group, "letra": key.Letter, "dia": key.Weekday},
			})
			continue
		}

		for _, gs := range cells {
			counters[key.Group]++
			instance := g.buildInstance(key, gs, room, counters[key.Group], dates[key])
			groups = append(groups, instance)
			slotKey := instance.Slot()
			bySlot[slotKey] = append(bySlot[slotKey], instance)
		}
	}
	return true, groups, bySlot, diags
}

// cellsFor returns the grid cells where the key's group and letter are
// jointly referenced on the key's weekday, in slot order. A group and
// letter may legitimately span several slots.
func (g *GroupInstantiator) cellsFor(key domain.DateKey) []config.GridSlot {
	var out []config.GridSlot
	for _, gs := range g.store.GridSlots(key.Semester, key.Subject) {
		if gs.Weekday != key.Weekday {
			continue
		}
		if !containsCode(gs.Cell.Groups, key.Group) || !containsCode(gs.Cell.Letters, key.Letter) {
			continue
		}
		out = append(out, gs)
	}
	return out
}

func (g *GroupInstantiator) buildInstance(
	key domain.DateKey,
	gs config.GridSlot,
	room RoomChoice,
	sequence int,
	sessionDates []time.Time,
) *domain.LabGroup {
	simple, double := partnerCodes(key.Group, gs.Cell)
	return &domain.LabGroup{
		ID:          uuid.New().String(),
		Semester:    key.Semester,
		Subject:     key.Subject,
		GroupCode:   key.Group,
		Label:       domain.FormatGroupLabel(key.Group, sequence),
		Letter:      key.Letter,
		Weekday:     key.Weekday,
		TimeSlot:    gs.TimeSlot,
		Classroom:   room.Name,
		Capacity:    room.Capacity,
		Dates:       append([]time.Time(nil), sessionDates...),
		Mixed:       gs.Cell.IsMixed(),
		SimpleGroup: simple,
		DoubleGroup: double,
	}
}

// partnerCodes resolves the simple and double codes an instance carries.
// The instantiated group contributes its own code; in a mixed cell, the
// structurally different partner code is looked up from the same cell.
func partnerCodes(group string, cell *config.GridCell) (simple, double string) {
	switch {
	case domain.IsSimpleCode(group):
		simple = group
		if cell.IsMixed() {
			if _, doubles := domain.SplitCodes(cell.Groups); len(doubles) > 0 {
				double = doubles[0]
			}
		}
	case domain.IsDoubleCode(group):
		double = group
		if simples, _ := domain.SplitCodes(cell.Groups); len(simples) > 0 {
			simple = simples[0]
		}
	}
	return simple, double
}

func dateKeyLess(a, b domain.DateKey) bool {
	if a.GroupKey != b.GroupKey {
		return a.GroupKey.Less(b.GroupKey)
	}
	if r1, r2 := domain.WeekdayRank(a.Weekday), domain.WeekdayRank(b.Weekday); r1 != r2 {
		return r1 < r2
	}
	return a.Letter < b.Letter
}
