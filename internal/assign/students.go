package assign

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// StudentAssigner runs FASE 5: it seats every pending student of each
// subject into that subject's group instances. Double-degree students go
// first, into the instances that serve their double code, via maximum
// bipartite matching over free seats; simple-degree students follow by
// minimum load; a balancing pass evens out sibling instances.
type StudentAssigner struct {
	store *config.Store
}

func NewStudentAssigner(store *config.Store) *StudentAssigner {
	return &StudentAssigner{store: store}
}

type doubleStudent struct {
	id   string
	code string
}

// subjectRoster is everything FASE 5 needs to know about one subject's
// pending students.
type subjectRoster struct {
	simpleCodes   map[string][]string
	doubles       []doubleStudent
	doubleCodeOf  map[string]string
	enrolledCodes map[string][]string
}

// Run seats students on the shared instances, in the deterministic
// subject order the instances arrive in. Capacity shortfalls come back
// as student-category conflicts; softer findings as notices.
func (a *StudentAssigner) Run(groups []*domain.LabGroup) ([]domain.Conflict, []string) {
	var conflicts []domain.Conflict
	var notices []string

	subjects := lo.Map(
		lo.UniqBy(groups, func(g *domain.LabGroup) domain.SubjectKey { return g.Key().SubjectKey() }),
		func(g *domain.LabGroup, _ int) domain.SubjectKey { return g.Key().SubjectKey() },
	)
	for _, subject := range subjects {
		members := lo.Filter(groups, func(g *domain.LabGroup, _ int) bool {
			return g.Key().SubjectKey() == subject
		})
		roster := a.rosterFor(subject.Subject)

		unseated := seatDoubles(members, roster.doubles)
		if len(unseated) > 0 {
			left := seatRemainderGreedily(members, unseated)
			notices = append(notices, fmt.Sprintf(
				"%s: %d double-degree student(s) fell back to greedy seating, %d still unplaced",
				subject.Subject, len(unseated), left))
		}
		seatSimples(members, roster)
		notices = append(notices, balanceSiblings(members, roster)...)

		for _, g := range members {
			sort.Strings(g.Students)
		}
		conflicts = append(conflicts, shortfalls(subject, members, roster)...)
	}
	return conflicts, notices
}

// rosterFor indexes the subject's pending students: enrolled, lab not
// yet passed, split by the structure of their group code.
func (a *StudentAssigner) rosterFor(subject string) subjectRoster {
	roster := subjectRoster{
		simpleCodes:   map[string][]string{},
		doubleCodeOf:  map[string]string{},
		enrolledCodes: map[string][]string{},
	}
	for _, entry := range a.store.StudentEntries() {
		if entry.Student == nil {
			continue
		}
		enr := entry.Student.Enrollments[subject]
		if enr == nil || !enr.Enrolled || enr.LabPassed {
			continue
		}
		code := strings.TrimSpace(enr.Group)
		switch {
		case domain.IsDoubleCode(code):
			roster.doubles = append(roster.doubles, doubleStudent{id: entry.ID, code: code})
			roster.doubleCodeOf[entry.ID] = code
			roster.enrolledCodes[code] = append(roster.enrolledCodes[code], entry.ID)
		case domain.IsSimpleCode(code):
			roster.simpleCodes[code] = append(roster.simpleCodes[code], entry.ID)
			roster.enrolledCodes[code] = append(roster.enrolledCodes[code], entry.ID)
		}
	}
	return roster
}

// servesDouble reports whether an instance can host a student of the
// given double code: either the instance is that double group itself or
// it is the mixed half sharing the cell with it.
func servesDouble(g *domain.LabGroup, code string) bool {
	return g.GroupCode == code || (g.DoubleGroup == code && g.DoubleGroup != "")
}

type seatRef struct {
	group int
}

// seatDoubles seats double-degree students by maximum bipartite matching
// between students and the free seats of the instances serving them, so
// the number seated is maximal. Returns the unmatched remainder.
func seatDoubles(members []*domain.LabGroup, doubles []doubleStudent) []doubleStudent {
	if len(doubles) == 0 {
		return nil
	}
	var seats []seatRef
	for gi, g := range members {
		if g.DoubleGroup == "" {
			continue
		}
		for n := len(g.Students); n < g.Capacity; n++ {
			seats = append(seats, seatRef{group: gi})
		}
	}
	if len(seats) == 0 {
		return doubles
	}

	neighbours := func(studentAny, seatAny any) (bool, error) {
		student := studentAny.(doubleStudent)
		seat := seatAny.(seatRef)
		return servesDouble(members[seat.group], student.code), nil
	}
	left := lo.Map(doubles, func(d doubleStudent, _ int) any { return d })
	right := lo.Map(seats, func(s seatRef, _ int) any { return s })

	graph, err := bipartitegraph.NewBipartiteGraph(left, right, neighbours)
	if err != nil {
		return doubles
	}

	matched := map[int]bool{}
	for _, edge := range graph.LargestMatching() {
		studentIdx, seatIdx := edge.Node1, edge.Node2-len(doubles)
		g := members[seats[seatIdx].group]
		g.Students = append(g.Students, doubles[studentIdx].id)
		matched[studentIdx] = true
	}

	var unseated []doubleStudent
	for i, d := range doubles {
		if !matched[i] {
			unseated = append(unseated, d)
		}
	}
	return unseated
}

// seatRemainderGreedily places what the matching could not, minimum load
// first. Returns how many students stayed unplaced.
func seatRemainderGreedily(members []*domain.LabGroup, remainder []doubleStudent) int {
	left := 0
	for _, d := range remainder {
		targets := lo.Filter(members, func(g *domain.LabGroup, _ int) bool {
			return servesDouble(g, d.code)
		})
		g := leastLoaded(targets)
		if g == nil {
			left++
			continue
		}
		g.Students = append(g.Students, d.id)
	}
	return left
}

// seatSimples distributes each simple code's students across that code's
// own instances by minimum current load, ties by label.
func seatSimples(members []*domain.LabGroup, roster subjectRoster) {
	codes := lo.Keys(roster.simpleCodes)
	sort.Strings(codes)
	for _, code := range codes {
		targets := lo.Filter(members, func(g *domain.LabGroup, _ int) bool {
			return g.GroupCode == code
		})
		for _, id := range roster.simpleCodes[code] {
			g := leastLoaded(targets)
			if g == nil {
				break
			}
			g.Students = append(g.Students, id)
		}
	}
}

// leastLoaded picks the instance with the fewest students and free
// capacity, ties by label. Nil when every target is full.
func leastLoaded(targets []*domain.LabGroup) *domain.LabGroup {
	var best *domain.LabGroup
	for _, g := range targets {
		if len(g.Students) >= g.Capacity {
			continue
		}
		if best == nil ||
			len(g.Students) < len(best.Students) ||
			(len(g.Students) == len(best.Students) && g.Label < best.Label) {
			best = g
		}
	}
	return best
}

// balanceSiblings evens out instances of the same base code until sizes
// differ by at most one, moving the most recently seated student who is
// eligible in the destination. Unresolvable imbalances become notices.
func balanceSiblings(members []*domain.LabGroup, roster subjectRoster) []string {
	var notices []string
	byCode := lo.GroupBy(members, func(g *domain.LabGroup) string { return g.GroupCode })
	codes := lo.Keys(byCode)
	sort.Strings(codes)

	for _, code := range codes {
		siblings := byCode[code]
		if len(siblings) < 2 {
			continue
		}
		sort.Slice(siblings, func(i, j int) bool { return siblings[i].Label < siblings[j].Label })

		limit := 0
		for _, g := range siblings {
			limit += len(g.Students)
		}
		for moves := 0; moves < limit; moves++ {
			src, dst := extremes(siblings)
			if len(src.Students)-len(dst.Students) <= 1 || len(dst.Students) >= dst.Capacity {
				break
			}
			idx := lastMovable(src, dst, roster)
			if idx < 0 {
				break
			}
			student := src.Students[idx]
			src.Students = append(src.Students[:idx], src.Students[idx+1:]...)
			dst.Students = append(dst.Students, student)
		}

		src, dst := extremes(siblings)
		if len(src.Students)-len(dst.Students) > 1 {
			notices = append(notices, fmt.Sprintf(
				"%s: sizes of %s instances still differ by %d (capacity or slot eligibility)",
				siblings[0].Subject, code, len(src.Students)-len(dst.Students)))
		}
	}
	return notices
}

// extremes returns the largest and smallest sibling, label-tied.
func extremes(siblings []*domain.LabGroup) (largest, smallest *domain.LabGroup) {
	largest, smallest = siblings[0], siblings[0]
	for _, g := range siblings[1:] {
		if len(g.Students) > len(largest.Students) {
			largest = g
		}
		if len(g.Students) < len(smallest.Students) {
			smallest = g
		}
	}
	return largest, smallest
}

// lastMovable finds the most recently seated student of src who may sit
// in dst: simple-degree students move freely between sibling instances,
// double-degree students only where their double code is served.
func lastMovable(src, dst *domain.LabGroup, roster subjectRoster) int {
	for i := len(src.Students) - 1; i >= 0; i-- {
		code, isDouble := roster.doubleCodeOf[src.Students[i]]
		if !isDouble || servesDouble(dst, code) {
			return i
		}
	}
	return -1
}

// shortfalls reports, per group code, the enrolled students no instance
// could hold.
func shortfalls(subject domain.SubjectKey, members []*domain.LabGroup, roster subjectRoster) []domain.Conflict {
	seated := map[string]bool{}
	for _, g := range members {
		for _, id := range g.Students {
			seated[id] = true
		}
	}

	codes := lo.Keys(roster.enrolledCodes)
	sort.Strings(codes)

	var out []domain.Conflict
	for _, code := range codes {
		missing := lo.CountBy(roster.enrolledCodes[code], func(id string) bool { return !seated[id] })
		if missing == 0 {
			continue
		}
		out = append(out, domain.Conflict{
			Category:  domain.ConflictStudents,
			Semester:  subject.Semester,
			Subject:   subject.Subject,
			Group:     code,
			Weekday:   "-",
			TimeSlot:  "-",
			Date:      "-",
			Classroom: "-",
			Professor: "-",
			Detail: fmt.Sprintf(
				"insufficient capacity: %d student(s) of group %s left unplaced; raise the planned instance count or the room capacity",
				missing, code),
		})
	}
	return out
}
