package engine

import (
	"testing"
	"time"

	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDates(iso ...string) []time.Time {
	out := make([]time.Time, len(iso))
	for i, s := range iso {
		d, ok := domain.ParseISODate(s)
		if !ok {
			panic("bad test date " + s)
		}
		out[i] = d
	}
	return out
}

func redesRooms() map[domain.SubjectKey]RoomChoice {
	return map[domain.SubjectKey]RoomChoice{
		{Semester: "semestre_1", Subject: "Redes"}: {Name: "L-1.1", Capacity: 24},
	}
}

func TestGroupInstantiator_BuildsOneInstancePerLetter(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A", "B"}).
		Store()

	key := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A401"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(key, "Lunes", "A"): mustDates("2026-02-02", "2026-02-16"),
		dateKey(key, "Lunes", "B"): mustDates("2026-02-09"),
	}

	ok, groups, bySlot, diags := NewGroupInstantiator(store).Run(dates, redesRooms())

	require.True(t, ok)
	assert.Empty(t, diags)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "A401-01", first.Label)
	assert.Equal(t, "A", first.Letter)
	assert.Equal(t, "Lunes", first.Weekday)
	assert.Equal(t, "10:00-12:00", first.TimeSlot)
	assert.Equal(t, "L-1.1", first.Classroom)
	assert.Equal(t, 24, first.Capacity)
	assert.Equal(t, mustDates("2026-02-02", "2026-02-16"), first.Dates)
	assert.False(t, first.Mixed)
	assert.Equal(t, "A401", first.SimpleGroup)
	assert.Empty(t, first.DoubleGroup)

	second := groups[1]
	assert.Equal(t, "A401-02", second.Label)
	assert.Equal(t, "B", second.Letter)

	slot := domain.SlotKey{Weekday: "Lunes", TimeSlot: "10:00-12:00"}
	assert.Len(t, bySlot[slot], 2)
}

func TestGroupInstantiator_LabelsStayMonotonicAcrossSlots(t *testing.T) {
	// The same letter meets twice on Mondays; each slot is its own
	// schedulable instance and the sequence never restarts.
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A", "B"}).
		AddGridCell("semestre_1", "Redes", "12:00-14:00", "Lunes", []string{"A401"}, []string{"A", "B"}).
		Store()

	key := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A401"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(key, "Lunes", "A"): mustDates("2026-02-02"),
		dateKey(key, "Lunes", "B"): mustDates("2026-02-09"),
	}

	_, groups, _, _ := NewGroupInstantiator(store).Run(dates, redesRooms())

	require.Len(t, groups, 4)
	var labels []string
	seen := map[string]bool{}
	for _, g := range groups {
		labels = append(labels, g.Label)
		assert.False(t, seen[g.Label], "label %s assigned twice", g.Label)
		seen[g.Label] = true
	}
	assert.Equal(t, []string{"A401-01", "A401-02", "A401-03", "A401-04"}, labels)
	// Letter A fills both slots before B starts.
	assert.Equal(t, "A", groups[0].Letter)
	assert.Equal(t, "10:00-12:00", groups[0].TimeSlot)
	assert.Equal(t, "A", groups[1].Letter)
	assert.Equal(t, "12:00-14:00", groups[1].TimeSlot)
	assert.Equal(t, "B", groups[2].Letter)
}

func TestGroupInstantiator_MixedCellLinksPartnerCodes(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A404", "AB404"}, []string{"A"}).
		Store()

	simpleKey := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A404"}
	doubleKey := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "AB404"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(simpleKey, "Lunes", "A"): mustDates("2026-02-02"),
		dateKey(doubleKey, "Lunes", "A"): mustDates("2026-02-02"),
	}

	_, groups, bySlot, _ := NewGroupInstantiator(store).Run(dates, redesRooms())

	require.Len(t, groups, 2)
	simple, double := groups[0], groups[1]
	assert.Equal(t, "A404-01", simple.Label)
	assert.Equal(t, "AB404-01", double.Label)

	assert.True(t, simple.Mixed)
	assert.Equal(t, "A404", simple.SimpleGroup)
	assert.Equal(t, "AB404", simple.DoubleGroup)

	assert.True(t, double.Mixed)
	assert.Equal(t, "A404", double.SimpleGroup)
	assert.Equal(t, "AB404", double.DoubleGroup)

	slot := domain.SlotKey{Weekday: "Lunes", TimeSlot: "10:00-12:00"}
	assert.Len(t, bySlot[slot], 2, "both halves share the physical slot")
}

func TestGroupInstantiator_MissingRoomSkipsWithWarning(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A"}).
		Store()

	key := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A401"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(key, "Lunes", "A"): mustDates("2026-02-02"),
	}

	ok, groups, _, diags := NewGroupInstantiator(store).Run(dates, map[domain.SubjectKey]RoomChoice{})

	assert.True(t, ok)
	assert.Empty(t, groups)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "no resolved classroom")
}

func TestGroupInstantiator_DatesWithoutGridSlotWarn(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A"}).
		Store()

	key := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A401"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(key, "Miércoles", "A"): mustDates("2026-02-04"),
	}

	ok, groups, _, diags := NewGroupInstantiator(store).Run(dates, redesRooms())

	assert.True(t, ok)
	assert.Empty(t, groups)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Miércoles")
}

func TestGroupInstantiator_EmptyDateMapIsCritical(t *testing.T) {
	store := testutil.NewConfigBuilder().AddSubject("Redes", "1").Store()

	ok, groups, bySlot, diags := NewGroupInstantiator(store).Run(nil, redesRooms())

	require.False(t, ok)
	assert.Nil(t, groups)
	assert.Nil(t, bySlot)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityCritical, diags[0].Severity)
	assert.Equal(t, domain.PhaseGroups, diags[0].Phase)
}

func TestGroupInstantiator_SequencesAreIndependentPerBaseCode(t *testing.T) {
	store := testutil.NewConfigBuilder().
		AddSubject("Redes", "1").
		AddSubject("Sistemas Operativos", "1").
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A"}).
		AddGridCell("semestre_1", "Sistemas Operativos", "10:00-12:00", "Martes", []string{"B402"}, []string{"A"}).
		Store()

	redes := domain.GroupKey{Semester: "semestre_1", Subject: "Redes", Group: "A401"}
	sistemas := domain.GroupKey{Semester: "semestre_1", Subject: "Sistemas Operativos", Group: "B402"}
	dates := map[domain.DateKey][]time.Time{
		dateKey(redes, "Lunes", "A"):     mustDates("2026-02-02"),
		dateKey(sistemas, "Martes", "A"): mustDates("2026-02-03"),
	}
	rooms := redesRooms()
	rooms[domain.SubjectKey{Semester: "semestre_1", Subject: "Sistemas Operativos"}] = RoomChoice{Name: "L-2.1", Capacity: 30}

	_, groups, _, _ := NewGroupInstantiator(store).Run(dates, rooms)

	require.Len(t, groups, 2)
	labels := []string{groups[0].Label, groups[1].Label}
	assert.Contains(t, labels, "A401-01")
	assert.Contains(t, labels, "B402-01")
}
