package results

import (
	"fmt"

	"github.com/olabarga/labplan/internal/domain"
)

// FinalCheck reviews the assembled plan one last time and returns the
// notices belonging in the avisos list: instances that finished the run
// without professor, students or confirmed dates, and seat counts over
// the room capacity.
func FinalCheck(groups []*domain.LabGroup) []string {
	var avisos []string
	for _, g := range groups {
		if g.ProfessorID == "" && g.Professor == "" {
			avisos = append(avisos, fmt.Sprintf("%s: no professor assigned", g.Label))
		}
		if len(g.Students) == 0 {
			avisos = append(avisos, fmt.Sprintf("%s: no students seated", g.Label))
		}
		if len(g.Dates) == 0 {
			avisos = append(avisos, fmt.Sprintf("%s: no confirmed session dates", g.Label))
		}
		if len(g.Students) > g.Capacity {
			avisos = append(avisos, fmt.Sprintf("%s: %d students seated in a room for %d",
				g.Label, len(g.Students), g.Capacity))
		}
	}
	return avisos
}
