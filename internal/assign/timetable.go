package assign

import (
	"fmt"
	"sort"
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/engine"
	"github.com/samber/lo"
)

// Timetabler runs FASE 7: it confirms every instance's computed session
// dates against real-world availability, repairing clashes where it can.
// Repairs try the subject's alternative rooms on the same date first,
// then spare dates from the weekday pool; what cannot be repaired keeps
// its date and becomes a structured conflict.
type Timetabler struct {
	store    *config.Store
	resolver *engine.ClassroomResolver
	ledger   *Ledger
}

func NewTimetabler(store *config.Store, resolver *engine.ClassroomResolver) *Timetabler {
	return &Timetabler{store: store, resolver: resolver, ledger: NewLedger()}
}

type dateFit int

const (
	fitOK dateFit = iota
	fitProfessorBusy
	fitRoomBusy
)

// Run walks the slot blocks in slot order and confirms sessions round by
// round: in round j, member r checks its j-th date, so early sessions of
// every instance settle before anyone's late ones.
func (t *Timetabler) Run(bySlot map[domain.SlotKey][]*domain.LabGroup) []domain.Conflict {
	var conflicts []domain.Conflict
	for _, b := range buildBlocks(bySlot) {
		conflicts = append(conflicts, t.scheduleBlock(b)...)
	}
	conflicts = append(conflicts, t.studentClashes(bySlot)...)
	return conflicts
}

// buildBlocks splits each slot's instances by subject, preserving
// instantiation order. A block is the unit whose sessions must never
// land on the same concrete date; distinct subjects sharing a slot only
// compete through the room and professor ledger.
func buildBlocks(bySlot map[domain.SlotKey][]*domain.LabGroup) [][]*domain.LabGroup {
	slots := lo.Keys(bySlot)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Less(slots[j]) })

	var blocks [][]*domain.LabGroup
	for _, slot := range slots {
		index := map[domain.SubjectKey]int{}
		for _, g := range bySlot[slot] {
			key := g.Key().SubjectKey()
			i, ok := index[key]
			if !ok {
				i = len(blocks)
				index[key] = i
				blocks = append(blocks, nil)
			}
			blocks[i] = append(blocks[i], g)
		}
	}
	return blocks
}

func (t *Timetabler) scheduleBlock(members []*domain.LabGroup) []domain.Conflict {
	var conflicts []domain.Conflict
	used := map[string]bool{}

	rounds := 0
	for _, g := range members {
		if len(g.Dates) > rounds {
			rounds = len(g.Dates)
		}
	}

	for j := 0; j < rounds; j++ {
		for _, g := range members {
			if j >= len(g.Dates) {
				continue
			}
			if c := t.confirmSession(g, j, used); c != nil {
				conflicts = append(conflicts, *c)
			}
		}
	}

	for _, g := range members {
		sort.Slice(g.Dates, func(i, k int) bool { return g.Dates[i].Before(g.Dates[k]) })
	}
	return conflicts
}

// confirmSession settles the j-th session of g: the scheduled date in
// the current room, else an alternative room on that date, else a spare
// date from the weekday pool, else a conflict record.
func (t *Timetabler) confirmSession(g *domain.LabGroup, j int, used map[string]bool) *domain.Conflict {
	scheduled := g.Dates[j].Format(domain.ISODateLayout)

	if !used[scheduled] && t.settleOn(g, scheduled) {
		used[scheduled] = true
		return nil
	}

	for _, cand := range t.fallbackDates(g) {
		iso := cand.Format(domain.ISODateLayout)
		if used[iso] || containsTime(g.Dates, cand) {
			continue
		}
		if t.settleOn(g, iso) {
			g.Dates[j] = cand
			used[iso] = true
			return nil
		}
	}

	return t.sessionConflict(g, j, used[scheduled])
}

// settleOn confirms the date in the instance's room or an alternative,
// updating the ledger. False when neither professor nor rooms line up.
func (t *Timetabler) settleOn(g *domain.LabGroup, iso string) bool {
	switch t.fit(g, iso) {
	case fitOK:
		t.occupy(g, iso)
		return true
	case fitRoomBusy:
		alt := t.alternativeRoom(g, iso)
		if alt == nil {
			return false
		}
		g.Classroom, g.Capacity = alt.Name, alt.Capacity
		t.occupy(g, iso)
		return true
	default:
		return false
	}
}

// fit checks one date against the instance's professor and current room.
// Professor trouble wins over room trouble: a busy professor cannot be
// routed around, a busy room sometimes can.
func (t *Timetabler) fit(g *domain.LabGroup, iso string) dateFit {
	if g.ProfessorID != "" {
		prof := t.store.Professor(g.ProfessorID)
		if prof != nil && prof.UnavailableOn(iso) {
			return fitProfessorBusy
		}
		if !t.ledger.ProfessorFree(g.ProfessorID, iso, g.TimeSlot) {
			return fitProfessorBusy
		}
	}
	room := t.store.Classroom(g.Classroom)
	if room != nil && room.UnavailableOn(iso) {
		return fitRoomBusy
	}
	if !t.ledger.RoomFree(g.Classroom, iso, g.TimeSlot) {
		return fitRoomBusy
	}
	return fitOK
}

// alternativeRoom finds the best-capacity spare room that fits the
// already seated students and is free on the date.
func (t *Timetabler) alternativeRoom(g *domain.LabGroup, iso string) *engine.RoomChoice {
	for _, alt := range t.resolver.Alternatives(g.Subject, g.Classroom) {
		if alt.Capacity < len(g.Students) {
			continue
		}
		room := t.store.Classroom(alt.Name)
		if room == nil || room.UnavailableOn(iso) {
			continue
		}
		if !t.ledger.RoomFree(alt.Name, iso, g.TimeSlot) {
			continue
		}
		return &alt
	}
	return nil
}

func (t *Timetabler) occupy(g *domain.LabGroup, iso string) {
	t.ledger.OccupyRoom(g.Classroom, iso, g.TimeSlot)
	if g.ProfessorID != "" {
		t.ledger.OccupyProfessor(g.ProfessorID, iso, g.TimeSlot)
	}
}

// fallbackDates is the weekday's eligible calendar pool, the start-week
// cut applied.
func (t *Timetabler) fallbackDates(g *domain.LabGroup) []time.Time {
	pool := t.store.CalendarDates(g.Semester, g.Weekday)
	cut := t.startWeek(g) - 1
	if cut < 0 {
		cut = 0
	}
	if cut >= len(pool) {
		return nil
	}
	return pool[cut:]
}

func (t *Timetabler) startWeek(g *domain.LabGroup) int {
	subj := t.store.Subject(g.Subject)
	if subj == nil {
		return 1
	}
	group := subj.Groups[g.GroupCode]
	if group == nil || group.LabConfig == nil || group.LabConfig.StartWeek == nil {
		return 1
	}
	return *group.LabConfig.StartWeek
}

func (t *Timetabler) sessionConflict(g *domain.LabGroup, j int, takenBySibling bool) *domain.Conflict {
	scheduled := g.Dates[j].Format(domain.ISODateLayout)

	category := domain.ConflictClassrooms
	detail := "room unavailable or booked on every candidate date"
	switch {
	case !takenBySibling && t.fit(g, scheduled) == fitProfessorBusy:
		category = domain.ConflictProfessors
		detail = "professor unavailable or booked on every candidate date"
	case takenBySibling:
		detail = "no spare date left for this session within the slot block"
	}

	return &domain.Conflict{
		Category:  category,
		Semester:  g.Semester,
		Subject:   g.Subject,
		Group:     g.Label,
		Weekday:   g.Weekday,
		TimeSlot:  g.TimeSlot,
		Date:      g.Dates[j].Format(domain.DisplayDateLayout),
		Classroom: g.Classroom,
		Professor: orDash(g.Professor),
		Detail:    detail,
	}
}

// studentClashes reports students seated in two instances that meet on
// the same confirmed date and time slot.
func (t *Timetabler) studentClashes(bySlot map[domain.SlotKey][]*domain.LabGroup) []domain.Conflict {
	slots := lo.Keys(bySlot)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Less(slots[j]) })

	type seatKey struct {
		student string
		iso     string
		slot    string
	}
	first := map[seatKey]*domain.LabGroup{}
	var conflicts []domain.Conflict

	for _, slot := range slots {
		for _, g := range bySlot[slot] {
			for _, d := range g.Dates {
				iso := d.Format(domain.ISODateLayout)
				for _, id := range g.Students {
					key := seatKey{student: id, iso: iso, slot: g.TimeSlot}
					other, taken := first[key]
					if !taken {
						first[key] = g
						continue
					}
					if other == g {
						continue
					}
					conflicts = append(conflicts, domain.Conflict{
						Category:  domain.ConflictStudents,
						Semester:  g.Semester,
						Subject:   g.Subject,
						Group:     g.Label,
						Weekday:   g.Weekday,
						TimeSlot:  g.TimeSlot,
						Date:      d.Format(domain.DisplayDateLayout),
						Classroom: g.Classroom,
						Professor: orDash(g.Professor),
						Detail:    fmt.Sprintf("student %s is also seated in %s on this date and slot", id, other.Label),
					})
				}
			}
		}
	}
	return conflicts
}

func containsTime(dates []time.Time, want time.Time) bool {
	for _, d := range dates {
		if d.Equal(want) {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
