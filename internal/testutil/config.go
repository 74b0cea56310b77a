package testutil

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/olabarga/labplan/internal/config"
)

// ConfigBuilder assembles small but structurally complete configuration
// documents for tests. All six sections are present from the start so
// structure validation passes unless a test removes one.
type ConfigBuilder struct {
	cfg        *config.Config
	totalWeeks *int
	dayCounter int
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: &config.Config{
			Subjects:   &config.SubjectsSection{Data: map[string]*config.Subject{}},
			Schedules:  &config.SchedulesSection{Data: map[string]config.SemesterSchedules{}},
			Students:   &config.StudentsSection{Data: map[string]*config.Student{}},
			Classrooms: &config.ClassroomsSection{Data: map[string]*config.Classroom{}},
			Professors: &config.ProfessorsSection{Data: map[string]*config.Professor{}},
			Calendar:   &config.CalendarSection{Semesters: map[string]map[string]*config.CalendarDay{}},
		},
	}
}

func (b *ConfigBuilder) WithTotalWeeks(n int) *ConfigBuilder {
	b.totalWeeks = &n
	return b
}

// WithoutSection drops one section by its JSON key, for structure
// failure tests.
func (b *ConfigBuilder) WithoutSection(name string) *ConfigBuilder {
	switch name {
	case "asignaturas":
		b.cfg.Subjects = nil
	case "horarios":
		b.cfg.Schedules = nil
	case "alumnos":
		b.cfg.Students = nil
	case "aulas":
		b.cfg.Classrooms = nil
	case "profesores":
		b.cfg.Professors = nil
	case "calendario":
		b.cfg.Calendar = nil
	}
	return b
}

func (b *ConfigBuilder) AddSubject(name, semester string) *ConfigBuilder {
	if _, ok := b.cfg.Subjects.Data[name]; !ok {
		b.cfg.Subjects.Data[name] = &config.Subject{
			Semester: config.FlexString(semester),
			Groups:   map[string]*config.GroupEntry{},
		}
	}
	return b
}

func (b *ConfigBuilder) AddGroup(subject, code string, startWeek, sessions int) *ConfigBuilder {
	subj := b.cfg.Subjects.Data[subject]
	subj.Groups[code] = &config.GroupEntry{
		LabConfig: &config.LabConfig{StartWeek: &startWeek, Sessions: &sessions},
	}
	return b
}

// AddGroupNoConfig associates a group code without lab configuration,
// the warning-and-skip path.
func (b *ConfigBuilder) AddGroupNoConfig(subject, code string) *ConfigBuilder {
	b.cfg.Subjects.Data[subject].Groups[code] = &config.GroupEntry{}
	return b
}

func (b *ConfigBuilder) AddGridCell(semKey, subject, slot, weekday string, groups, letters []string) *ConfigBuilder {
	semesters := b.cfg.Schedules.Data
	if semesters[semKey] == nil {
		semesters[semKey] = config.SemesterSchedules{}
	}
	if semesters[semKey][subject] == nil {
		semesters[semKey][subject] = &config.SubjectSchedule{Grid: config.Grid{}}
	}
	grid := semesters[semKey][subject].Grid
	if grid[slot] == nil {
		grid[slot] = map[string]*config.GridCell{}
	}
	grid[slot][weekday] = &config.GridCell{Groups: groups, Letters: letters}
	return b
}

// AddCalendarDates registers dated sessions on one weekday of a
// semester calendar.
func (b *ConfigBuilder) AddCalendarDates(semKey, weekday string, isoDates ...string) *ConfigBuilder {
	if b.cfg.Calendar.Semesters[semKey] == nil {
		b.cfg.Calendar.Semesters[semKey] = map[string]*config.CalendarDay{}
	}
	for _, date := range isoDates {
		b.dayCounter++
		id := fmt.Sprintf("d%03d", b.dayCounter)
		b.cfg.Calendar.Semesters[semKey][id] = &config.CalendarDay{Date: date, Weekday: weekday}
	}
	return b
}

func (b *ConfigBuilder) AddClassroom(name string, capacity int, available bool, subjects ...string) *ConfigBuilder {
	b.cfg.Classrooms.Data[name] = &config.Classroom{
		Capacity:  capacity,
		Available: available,
		Subjects:  subjects,
	}
	return b
}

func (b *ConfigBuilder) AddProfessor(id, name string, teaches, workDays []string) *ConfigBuilder {
	b.cfg.Professors.Data[id] = &config.Professor{
		Name:     name,
		Teaches:  teaches,
		WorkDays: workDays,
	}
	return b
}

func (b *ConfigBuilder) AddStudent(dni, subject, group string) *ConfigBuilder {
	st := b.cfg.Students.Data[dni]
	if st == nil {
		st = &config.Student{Enrollments: map[string]*config.Enrollment{}}
		b.cfg.Students.Data[dni] = st
	}
	st.Enrollments[subject] = &config.Enrollment{Enrolled: true, Group: group}
	return b
}

// WithLabPassed marks an existing enrollment as already passed.
func (b *ConfigBuilder) WithLabPassed(dni, subject string) *ConfigBuilder {
	b.cfg.Students.Data[dni].Enrollments[subject].LabPassed = true
	return b
}

// WithProfessorBlockedSlot blocks one weekday slot for an already added
// professor.
func (b *ConfigBuilder) WithProfessorBlockedSlot(id, weekday, slot string) *ConfigBuilder {
	prof := b.cfg.Professors.Data[id]
	if prof.BlockedSlots == nil {
		prof.BlockedSlots = config.BlockedSlots{}
	}
	prof.BlockedSlots[weekday] = append(prof.BlockedSlots[weekday], slot)
	return b
}

// WithProfessorUnavailable adds dates the professor cannot attend.
func (b *ConfigBuilder) WithProfessorUnavailable(id string, dates ...string) *ConfigBuilder {
	b.cfg.Professors.Data[id].UnavailableDates = append(
		b.cfg.Professors.Data[id].UnavailableDates, dates...)
	return b
}

// WithClassroomUnavailable adds dates the room cannot be used.
func (b *ConfigBuilder) WithClassroomUnavailable(name string, dates ...string) *ConfigBuilder {
	b.cfg.Classrooms.Data[name].UnavailableDates = append(
		b.cfg.Classrooms.Data[name].UnavailableDates, dates...)
	return b
}

// Build returns the assembled document, normalized the same way loaded
// documents are.
func (b *ConfigBuilder) Build() *config.Document {
	if b.totalWeeks != nil && b.cfg.Calendar != nil {
		b.cfg.Calendar.TotalWeeks = b.totalWeeks
	}
	doc := &config.Document{Config: b.cfg}
	config.Normalize(doc)
	return doc
}

// Store builds the document and wraps it in a read store.
func (b *ConfigBuilder) Store() *config.Store {
	return config.NewStore(b.Build())
}

// WriteTo saves the assembled document under dir and returns its path.
// The calendar's typed sessions are folded back into the raw datos form
// first so the file round-trips through Load the way editor documents
// do.
func (b *ConfigBuilder) WriteTo(t *testing.T, dir string) string {
	t.Helper()
	doc := b.Build()
	if cal := doc.Config.Calendar; cal != nil && cal.Data == nil && len(cal.Semesters) > 0 {
		cal.Data = make(map[string]json.RawMessage, len(cal.Semesters))
		for key, days := range cal.Semesters {
			enc, err := json.Marshal(days)
			if err != nil {
				t.Fatalf("encoding calendar %s: %v", key, err)
			}
			cal.Data[key] = enc
		}
	}
	path := filepath.Join(dir, config.DefaultDocumentName)
	if err := config.Save(doc, path); err != nil {
		t.Fatalf("writing document: %v", err)
	}
	return path
}

// WeeklyDates returns n ISO dates spaced seven days apart starting at
// startISO, for building semester-long calendars.
func WeeklyDates(startISO string, n int) []string {
	start, err := time.Parse("2006-01-02", startISO)
	if err != nil {
		panic(fmt.Sprintf("bad start date %q: %v", startISO, err))
	}
	out := make([]string, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, 7*i).Format("2006-01-02")
	}
	return out
}
