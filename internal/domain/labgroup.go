package domain

import (
	"fmt"
	"time"
)

// LabGroup is one concrete laboratory group instance: a rotation letter
// of a configured group meeting in a fixed classroom, weekday and time
// slot on a fixed list of calendar dates. Instantiation emits instances
// with empty professor and student fields; the assignment phases fill
// them in on the shared values.
type LabGroup struct {
	ID        string
	Semester  string
	Subject   string
	GroupCode string
	Label     string
	Letter    string
	Weekday   string
	TimeSlot  string
	Classroom string
	Capacity  int
	Dates     []time.Time
	Mixed     bool
	// SimpleGroup and DoubleGroup hold the degree codes sharing the
	// slot; DoubleGroup is empty for non-mixed cells.
	SimpleGroup string
	DoubleGroup string
	Professor   string
	ProfessorID string
	Students    []string
}

// FormatGroupLabel builds the display label for the nth instance of a
// base group code: A404 + 1 yields "A404-01".
func FormatGroupLabel(base string, n int) string {
	return fmt.Sprintf("%s-%02d", base, n)
}

// Key returns the instance's group identity within its semester.
func (g *LabGroup) Key() GroupKey {
	return GroupKey{Semester: g.Semester, Subject: g.Subject, Group: g.GroupCode}
}

// Slot returns the weekday and time slot the instance meets in.
func (g *LabGroup) Slot() SlotKey {
	return SlotKey{Weekday: g.Weekday, TimeSlot: g.TimeSlot}
}
