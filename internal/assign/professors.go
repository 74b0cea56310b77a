package assign

import (
	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// ProfessorAssigner runs FASE 6: each instance gets the least loaded
// professor among those who teach the subject, work the weekday and have
// not blocked the slot.
type ProfessorAssigner struct {
	store *config.Store
}

func NewProfessorAssigner(store *config.Store) *ProfessorAssigner {
	return &ProfessorAssigner{store: store}
}

// Run walks the instances in their given deterministic order and fills
// Professor and ProfessorID. Instances nobody can take are left
// unassigned and reported as professor conflicts.
func (p *ProfessorAssigner) Run(groups []*domain.LabGroup) []domain.Conflict {
	var conflicts []domain.Conflict
	load := map[string]int{}
	entries := p.store.ProfessorEntries()

	for _, g := range groups {
		best := -1
		for i, entry := range entries {
			prof := entry.Prof
			if prof == nil || !prof.TeachesSubject(g.Subject) ||
				!prof.WorksOn(g.Weekday) || prof.Blocks(g.Weekday, g.TimeSlot) {
				continue
			}
			// Entries arrive ID-sorted, so a strict comparison keeps the
			// smallest ID among equally loaded candidates.
			if best < 0 || load[entry.ID] < load[entries[best].ID] {
				best = i
			}
		}
		if best < 0 {
			conflicts = append(conflicts, domain.Conflict{
				Category:  domain.ConflictProfessors,
				Semester:  g.Semester,
				Subject:   g.Subject,
				Group:     g.Label,
				Weekday:   g.Weekday,
				TimeSlot:  g.TimeSlot,
				Classroom: g.Classroom,
				Professor: "-",
				Detail:    "no eligible professor: nobody teaches the subject on this weekday with the slot free",
			})
			continue
		}
		chosen := entries[best]
		g.ProfessorID = chosen.ID
		g.Professor = chosen.Prof.DisplayName()
		load[chosen.ID]++
	}
	return conflicts
}
