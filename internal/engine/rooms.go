package engine

import (
	"fmt"
	"sort"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// ClassroomResolver runs FASE 3: it picks each subject's preferred
// laboratory among the available rooms serving it.
type ClassroomResolver struct {
	store *config.Store
}

func NewClassroomResolver(store *config.Store) *ClassroomResolver {
	return &ClassroomResolver{store: store}
}

// RoomChoice is a resolved classroom preference.
type RoomChoice struct {
	Name     string
	Capacity int
}

// Run resolves every subject. The choice rule is strictly maximum
// capacity, ties broken by lexicographically smallest room name, so the
// outcome never depends on map iteration order. A subject without rooms
// only warns; an empty subject section is the one critical case.
func (r *ClassroomResolver) Run() (ok bool, rooms map[domain.SubjectKey]RoomChoice, diags domain.DiagnosticList) {
	entries := r.store.SubjectEntries()
	if len(entries) == 0 {
		diags = append(diags, domain.Diagnostic{
			Phase:    domain.PhaseClassrooms,
			Severity: domain.SeverityCritical,
			Message:  "no subjects configured, nothing to resolve classrooms for",
		})
		return false, nil, diags
	}

	rooms = map[domain.SubjectKey]RoomChoice{}
	for _, entry := range entries {
		semKey := config.SemesterKey(entry.Subject.Semester.String())
		candidates := r.store.ClassroomsFor(entry.Name)
		if len(candidates) == 0 {
			diags = append(diags, domain.Diagnostic{
				Phase:    domain.PhaseClassrooms,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("no available classroom serves subject %q", entry.Name),
				Detail:   map[string]any{"semestre": semKey, "asignatura": entry.Name},
			})
			continue
		}

		best := candidates[0]
		for _, cand := range candidates[1:] {
			if cand.Room.Capacity > best.Room.Capacity {
				best = cand
			}
		}
		rooms[domain.SubjectKey{Semester: semKey, Subject: entry.Name}] = RoomChoice{
			Name:     best.Name,
			Capacity: best.Room.Capacity,
		}
	}
	return true, rooms, diags
}

// Alternatives returns the subject's remaining rooms ordered by
// descending capacity, then name, after removing the preferred one. The
// timetabling phase walks this list when the preferred room clashes.
func (r *ClassroomResolver) Alternatives(subject string, preferred string) []RoomChoice {
	var out []RoomChoice
	for _, cand := range r.store.ClassroomsFor(subject) {
		if cand.Name == preferred {
			continue
		}
		out = append(out, RoomChoice{Name: cand.Name, Capacity: cand.Room.Capacity})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity > out[j].Capacity
		}
		return out[i].Name < out[j].Name
	})
	return out
}
