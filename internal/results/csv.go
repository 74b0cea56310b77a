package results

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/olabarga/labplan/internal/domain"
)

// csvHeader is the stable column order of exported plans.
var csvHeader = []string{
	"semestre", "asignatura", "grupo", "letra", "dia", "franja",
	"aula", "capacidad", "profesor", "num_alumnos", "alumnos", "fechas",
}

// WriteCSV renders one row per instance in the groups' given order.
// Multi-valued cells join with ";" so the comma stays free for the
// column separator.
func WriteCSV(w io.Writer, groups []*domain.LabGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, g := range groups {
		row := []string{
			g.Semester,
			g.Subject,
			g.Label,
			g.Letter,
			g.Weekday,
			g.TimeSlot,
			g.Classroom,
			strconv.Itoa(g.Capacity),
			g.Professor,
			strconv.Itoa(len(g.Students)),
			strings.Join(g.Students, ";"),
			strings.Join(domain.FormatDisplayDates(g.Dates), ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
