package assign

import (
	"sort"
	"testing"

	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainInstance builds a single-degree instance shaped the way the group
// phase produces them.
func plainInstance(subject, code, label string, capacity int) *domain.LabGroup {
	return &domain.LabGroup{
		ID:          label,
		Semester:    "semestre_1",
		Subject:     subject,
		GroupCode:   code,
		Label:       label,
		Letter:      "A",
		Weekday:     "Lunes",
		TimeSlot:    "10:00-12:00",
		Classroom:   "L-1.1",
		Capacity:    capacity,
		SimpleGroup: code,
	}
}

func mixedInstance(subject, code, double, label string, capacity int) *domain.LabGroup {
	g := plainInstance(subject, code, label, capacity)
	g.Mixed = true
	g.DoubleGroup = double
	return g
}

func TestStudentAssigner_SeatsSimplesByMinimumLoad(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("s01", "Redes", "A401").
		AddStudent("s02", "Redes", "A401").
		AddStudent("s03", "Redes", "A401").
		Store()
	g1 := plainInstance("Redes", "A401", "A401-01", 24)
	g2 := plainInstance("Redes", "A401", "A401-02", 24)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{g1, g2})

	require.Empty(t, conflicts)
	require.Empty(t, notices)
	assert.Equal(t, []string{"s01", "s03"}, g1.Students, "load ties go to the smaller label")
	assert.Equal(t, []string{"s02"}, g2.Students)
}

func TestStudentAssigner_DoublesFillEverySeatBeforeSimples(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("d01", "Redes", "AB404").
		AddStudent("d02", "Redes", "AB404").
		AddStudent("d03", "Redes", "AB404").
		AddStudent("s01", "Redes", "A404").
		Store()
	gm := mixedInstance("Redes", "A404", "AB404", "A404-01", 2)
	gd := mixedInstance("Redes", "AB404", "AB404", "AB404-01", 1)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{gm, gd})

	// The three double-degree students saturate both instances, leaving
	// the simple-degree student with nowhere to sit.
	require.Empty(t, notices)
	assert.Len(t, gm.Students, 2)
	assert.Len(t, gd.Students, 1)
	seated := append(append([]string{}, gm.Students...), gd.Students...)
	sort.Strings(seated)
	assert.Equal(t, []string{"d01", "d02", "d03"}, seated)

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, domain.ConflictStudents, c.Category)
	assert.Equal(t, "A404", c.Group)
	assert.Equal(t, "-", c.Weekday)
	assert.Equal(t, "-", c.Classroom)
	assert.Contains(t, c.Detail, "1 student(s) of group A404")
}

func TestStudentAssigner_UnseatableDoublesFallBackWithNotice(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("d01", "Redes", "AB404").
		AddStudent("d02", "Redes", "AB404").
		Store()
	gm := mixedInstance("Redes", "A404", "AB404", "A404-01", 1)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{gm})

	assert.Len(t, gm.Students, 1)
	require.Len(t, notices, 1)
	assert.Equal(t,
		"Redes: 1 double-degree student(s) fell back to greedy seating, 1 still unplaced",
		notices[0])
	require.Len(t, conflicts, 1)
	assert.Equal(t, "AB404", conflicts[0].Group)
	assert.Contains(t, conflicts[0].Detail, "1 student(s) of group AB404")
}

func TestStudentAssigner_EvensOutMixedSiblings(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("d01", "Redes", "AB404").
		AddStudent("d02", "Redes", "AB404").
		AddStudent("d03", "Redes", "AB404").
		Store()
	g1 := mixedInstance("Redes", "A404", "AB404", "A404-01", 4)
	g2 := mixedInstance("Redes", "A404", "AB404", "A404-02", 4)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{g1, g2})

	require.Empty(t, conflicts)
	require.Empty(t, notices)
	assert.Equal(t, 3, len(g1.Students)+len(g2.Students))
	diff := len(g1.Students) - len(g2.Students)
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, 1, "sibling sizes must not drift apart")
}

func TestStudentAssigner_DoublesOnlyMoveWhereServed(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("d01", "Redes", "AB404").
		AddStudent("d02", "Redes", "AB404").
		AddStudent("d03", "Redes", "AB404").
		Store()
	g1 := mixedInstance("Redes", "A404", "AB404", "A404-01", 4)
	g2 := plainInstance("Redes", "A404", "A404-02", 4)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{g1, g2})

	// The sibling without the double code cannot relieve the mixed one,
	// so the imbalance stays and is reported instead of broken.
	require.Empty(t, conflicts)
	assert.Len(t, g1.Students, 3)
	assert.Empty(t, g2.Students)
	require.Len(t, notices, 1)
	assert.Equal(t,
		"Redes: sizes of A404 instances still differ by 3 (capacity or slot eligibility)",
		notices[0])
}

func TestStudentAssigner_CapacityImbalanceLeavesNotice(t *testing.T) {
	b := testutil.NewConfigBuilder()
	for _, dni := range []string{"s01", "s02", "s03", "s04", "s05", "s06"} {
		b.AddStudent(dni, "Redes", "A404")
	}
	g1 := plainInstance("Redes", "A404", "A404-01", 6)
	g2 := plainInstance("Redes", "A404", "A404-02", 2)

	conflicts, notices := NewStudentAssigner(b.Store()).Run([]*domain.LabGroup{g1, g2})

	require.Empty(t, conflicts, "everyone fits, only unevenly")
	assert.Len(t, g1.Students, 4)
	assert.Len(t, g2.Students, 2)
	require.Len(t, notices, 1)
	assert.Equal(t,
		"Redes: sizes of A404 instances still differ by 2 (capacity or slot eligibility)",
		notices[0])
}

func TestStudentAssigner_SkipsPassedAndForeignEnrollments(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddStudent("s01", "Redes", "A401").
		AddStudent("s02", "Redes", "A401").
		WithLabPassed("s02", "Redes").
		AddStudent("s03", "Sistemas Operativos", "B402").
		Store()
	g := plainInstance("Redes", "A401", "A401-01", 24)

	conflicts, notices := NewStudentAssigner(store).Run([]*domain.LabGroup{g})

	require.Empty(t, conflicts)
	require.Empty(t, notices)
	assert.Equal(t, []string{"s01"}, g.Students)
}
