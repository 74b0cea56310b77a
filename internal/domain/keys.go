package domain

// GroupKey identifies a configured lab group within a semester.
type GroupKey struct {
	Semester string
	Subject  string
	Group    string
}

// SubjectKey identifies a subject within a semester.
type SubjectKey struct {
	Semester string
	Subject  string
}

// DateKey identifies one rotation letter of a group on one weekday,
// the granularity at which session dates are computed.
type DateKey struct {
	GroupKey
	Weekday string
	Letter  string
}

// SlotKey identifies a weekday and time slot pair.
type SlotKey struct {
	Weekday  string
	TimeSlot string
}

func (k GroupKey) SubjectKey() SubjectKey {
	return SubjectKey{Semester: k.Semester, Subject: k.Subject}
}

// Less orders group keys by semester, subject and group code.
func (k GroupKey) Less(o GroupKey) bool {
	if k.Semester != o.Semester {
		return k.Semester < o.Semester
	}
	if k.Subject != o.Subject {
		return k.Subject < o.Subject
	}
	return k.Group < o.Group
}

// Less orders slot keys by weekday rank, then slot start time, then the
// raw slot string.
func (k SlotKey) Less(o SlotKey) bool {
	if r1, r2 := WeekdayRank(k.Weekday), WeekdayRank(o.Weekday); r1 != r2 {
		return r1 < r2
	}
	if s1, s2 := SlotStartMinutes(k.TimeSlot), SlotStartMinutes(o.TimeSlot); s1 != s2 {
		return s1 < s2
	}
	return k.TimeSlot < o.TimeSlot
}
