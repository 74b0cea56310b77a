package service

import (
	"github.com/olabarga/labplan/internal/testutil"
)

// organizableBuilder assembles a document every phase completes on:
// one subject, one rotating group over four Mondays, a room with seats
// to spare and a professor who teaches the subject.
func organizableBuilder() *testutil.ConfigBuilder {
	return testutil.NewConfigBuilder().
		WithTotalWeeks(4).
		AddSubject("Redes", "1").
		AddGroup("Redes", "A401", 1, 2).
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A", "B"}).
		AddCalendarDates("semestre_1", "Lunes", testutil.WeeklyDates("2026-02-02", 4)...).
		AddClassroom("L-1.1", 24, true, "Redes").
		AddProfessor("p01", "Ana Ruiz", []string{"Redes"}, nil).
		AddStudent("s01", "Redes", "A401").
		AddStudent("s02", "Redes", "A401").
		AddStudent("s03", "Redes", "A401")
}

// brokenBuilder trips validation: two usable weeks cannot hold a
// five-session block.
func brokenBuilder() *testutil.ConfigBuilder {
	return testutil.NewConfigBuilder().
		WithTotalWeeks(4).
		AddSubject("Redes", "1").
		AddGroup("Redes", "A401", 3, 5).
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A"}).
		AddCalendarDates("semestre_1", "Lunes", testutil.WeeklyDates("2026-02-02", 4)...).
		AddClassroom("L-1.1", 24, true, "Redes")
}
