package config

import (
	"sort"
	"time"

	"github.com/olabarga/labplan/internal/domain"
)

// DefaultTotalWeeks is assumed when neither the calendar section nor its
// metadata states a week count.
const DefaultTotalWeeks = 14

// Store is the read-only lookup facade the organization phases work
// against. It wraps a normalized document; every accessor returns
// deterministically ordered data.
type Store struct {
	doc *Document
}

func NewStore(doc *Document) *Store {
	return &Store{doc: doc}
}

func (s *Store) Document() *Document {
	return s.doc
}

// HasConfig reports whether the document carries a configuracion block
// at all.
func (s *Store) HasConfig() bool {
	return s.doc != nil && s.doc.Config != nil
}

// MissingSections returns the JSON keys of required sections absent from
// the document, in document order.
func (s *Store) MissingSections() []string {
	if !s.HasConfig() {
		return append([]string(nil), SectionNames...)
	}
	cfg := s.doc.Config
	present := map[string]bool{
		"asignaturas": cfg.Subjects != nil,
		"horarios":    cfg.Schedules != nil,
		"alumnos":     cfg.Students != nil,
		"aulas":       cfg.Classrooms != nil,
		"profesores":  cfg.Professors != nil,
		"calendario":  cfg.Calendar != nil,
	}
	var missing []string
	for _, name := range SectionNames {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// TotalWeeks resolves the semester length: semanas_total first, then the
// calendar metadata limit, then the default.
func (s *Store) TotalWeeks() int {
	if !s.HasConfig() || s.doc.Config.Calendar == nil {
		return DefaultTotalWeeks
	}
	cal := s.doc.Config.Calendar
	if cal.TotalWeeks != nil && *cal.TotalWeeks > 0 {
		return *cal.TotalWeeks
	}
	if cal.Metadata != nil && cal.Metadata.WeekLimit > 0 {
		return cal.Metadata.WeekLimit
	}
	return DefaultTotalWeeks
}

// SubjectEntry pairs a subject name with its record.
type SubjectEntry struct {
	Name    string
	Subject *Subject
}

// SubjectEntries returns all configured subjects sorted by name.
func (s *Store) SubjectEntries() []SubjectEntry {
	if !s.HasConfig() || s.doc.Config.Subjects == nil {
		return nil
	}
	data := s.doc.Config.Subjects.Data
	entries := make([]SubjectEntry, 0, len(data))
	for name, subj := range data {
		entries = append(entries, SubjectEntry{Name: name, Subject: subj})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func (s *Store) Subject(name string) *Subject {
	if !s.HasConfig() || s.doc.Config.Subjects == nil {
		return nil
	}
	return s.doc.Config.Subjects.Data[name]
}

// SemesterOf returns the canonical semester key of a subject, empty when
// the subject is unknown or carries no semester.
func (s *Store) SemesterOf(subjectName string) string {
	subj := s.Subject(subjectName)
	if subj == nil {
		return ""
	}
	return SemesterKey(subj.Semester.String())
}

// GroupCodes returns a subject's associated group codes sorted.
func (s *Store) GroupCodes(subj *Subject) []string {
	if subj == nil {
		return nil
	}
	codes := make([]string, 0, len(subj.Groups))
	for code := range subj.Groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GridFor returns the weekly grid of a subject in a semester, nil when
// absent.
func (s *Store) GridFor(semKey, subject string) Grid {
	if !s.HasConfig() || s.doc.Config.Schedules == nil {
		return nil
	}
	subjects := s.doc.Config.Schedules.Data[semKey]
	if subjects == nil {
		return nil
	}
	sched := subjects[subject]
	if sched == nil {
		return nil
	}
	return sched.Grid
}

// GridSlot is one flattened grid cell with its slot coordinates.
type GridSlot struct {
	Weekday  string
	TimeSlot string
	Cell     *GridCell
}

// GridSlots flattens a subject's grid into cells sorted by weekday rank
// and slot start time.
func (s *Store) GridSlots(semKey, subject string) []GridSlot {
	grid := s.GridFor(semKey, subject)
	if grid == nil {
		return nil
	}
	var slots []GridSlot
	for slot, days := range grid {
		for day, cell := range days {
			if cell == nil {
				continue
			}
			slots = append(slots, GridSlot{Weekday: day, TimeSlot: slot, Cell: cell})
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		a := domain.SlotKey{Weekday: slots[i].Weekday, TimeSlot: slots[i].TimeSlot}
		b := domain.SlotKey{Weekday: slots[j].Weekday, TimeSlot: slots[j].TimeSlot}
		return a.Less(b)
	})
	return slots
}

// CalendarDates returns the semester's dated sessions falling on the
// weekday, ascending and deduplicated.
func (s *Store) CalendarDates(semKey, weekday string) []time.Time {
	if !s.HasConfig() || s.doc.Config.Calendar == nil {
		return nil
	}
	days := s.doc.Config.Calendar.Semesters[semKey]
	if len(days) == 0 {
		return nil
	}
	want := domain.NormalizeWeekday(weekday)
	seen := map[string]bool{}
	var dates []time.Time
	for _, day := range days {
		if day == nil || domain.NormalizeWeekday(day.Weekday) != want {
			continue
		}
		t, ok := domain.ParseISODate(day.Date)
		if !ok || seen[day.Date] {
			continue
		}
		seen[day.Date] = true
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// ClassroomEntry pairs a classroom name with its record.
type ClassroomEntry struct {
	Name string
	Room *Classroom
}

// ClassroomEntries returns all classrooms sorted by name.
func (s *Store) ClassroomEntries() []ClassroomEntry {
	if !s.HasConfig() || s.doc.Config.Classrooms == nil {
		return nil
	}
	data := s.doc.Config.Classrooms.Data
	entries := make([]ClassroomEntry, 0, len(data))
	for name, room := range data {
		entries = append(entries, ClassroomEntry{Name: name, Room: room})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// ClassroomsFor returns the available classrooms serving a subject,
// sorted by name.
func (s *Store) ClassroomsFor(subject string) []ClassroomEntry {
	var out []ClassroomEntry
	for _, e := range s.ClassroomEntries() {
		if e.Room != nil && e.Room.Serves(subject) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Classroom(name string) *Classroom {
	if !s.HasConfig() || s.doc.Config.Classrooms == nil {
		return nil
	}
	return s.doc.Config.Classrooms.Data[name]
}

// ProfessorEntry pairs a professor identifier with their record.
type ProfessorEntry struct {
	ID   string
	Prof *Professor
}

func (s *Store) Professor(id string) *Professor {
	if !s.HasConfig() || s.doc.Config.Professors == nil {
		return nil
	}
	return s.doc.Config.Professors.Data[id]
}

// ProfessorEntries returns all professors sorted by identifier.
func (s *Store) ProfessorEntries() []ProfessorEntry {
	if !s.HasConfig() || s.doc.Config.Professors == nil {
		return nil
	}
	data := s.doc.Config.Professors.Data
	entries := make([]ProfessorEntry, 0, len(data))
	for id, prof := range data {
		entries = append(entries, ProfessorEntry{ID: id, Prof: prof})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// StudentEntry pairs a student identifier (DNI) with their record.
type StudentEntry struct {
	ID      string
	Student *Student
}

// StudentEntries returns all students sorted by identifier.
func (s *Store) StudentEntries() []StudentEntry {
	if !s.HasConfig() || s.doc.Config.Students == nil {
		return nil
	}
	data := s.doc.Config.Students.Data
	entries := make([]StudentEntry, 0, len(data))
	for id, st := range data {
		entries = append(entries, StudentEntry{ID: id, Student: st})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
