package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCell_ListForm(t *testing.T) {
	var cell GridCell
	err := json.Unmarshal([]byte(`["A404", "EE408"]`), &cell)
	require.NoError(t, err)
	assert.Equal(t, []string{"A404", "EE408"}, cell.Groups)
	assert.Empty(t, cell.Letters)
	assert.Nil(t, cell.Mixed)
	assert.True(t, cell.IsMixed(), "double code present should infer mixed")
}

func TestGridCell_ObjectForm(t *testing.T) {
	var cell GridCell
	err := json.Unmarshal([]byte(`{"grupos":["A404"],"letras":["A","B"],"mixta":false}`), &cell)
	require.NoError(t, err)
	assert.Equal(t, []string{"A404"}, cell.Groups)
	assert.Equal(t, []string{"A", "B"}, cell.Letters)
	require.NotNil(t, cell.Mixed)
	assert.False(t, cell.IsMixed(), "explicit flag must win over inference")
}

func TestGridCell_InferenceWithoutDouble(t *testing.T) {
	var cell GridCell
	err := json.Unmarshal([]byte(`{"grupos":["A404","B301"],"letras":["A"]}`), &cell)
	require.NoError(t, err)
	assert.False(t, cell.IsMixed())
}

func TestBlockedSlots_DictForm(t *testing.T) {
	var b BlockedSlots
	err := json.Unmarshal([]byte(`{"Lunes":["09:30-11:30"]}`), &b)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30-11:30"}, b["Lunes"])
}

func TestBlockedSlots_ListFormDegradesToEmpty(t *testing.T) {
	var b BlockedSlots
	err := json.Unmarshal([]byte(`["Lunes 09:30-11:30"]`), &b)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestFlexString(t *testing.T) {
	var subj Subject
	require.NoError(t, json.Unmarshal([]byte(`{"semestre":"1"}`), &subj))
	assert.Equal(t, "1", subj.Semester.String())

	require.NoError(t, json.Unmarshal([]byte(`{"semestre":2}`), &subj))
	assert.Equal(t, "2", subj.Semester.String())
}

func TestProfessor_Eligibility(t *testing.T) {
	p := &Professor{
		Name:     "Ana",
		Surname:  "García",
		Teaches:  []string{"Física I"},
		WorkDays: []string{"Lunes", "Miercoles"},
		BlockedSlots: BlockedSlots{
			"Miércoles": {"9:30-11:30"},
		},
		UnavailableDates: []string{"2025-10-06"},
	}

	assert.Equal(t, "Ana García", p.DisplayName())
	assert.True(t, p.TeachesSubject("Física I"))
	assert.False(t, p.TeachesSubject("Química"))
	assert.True(t, p.WorksOn("Miércoles"), "unaccented config spelling must match accented query")
	assert.False(t, p.WorksOn("Viernes"))
	assert.True(t, p.Blocks("Miercoles", "09:30-11:30"), "slot spellings must be normalized before comparison")
	assert.False(t, p.Blocks("Lunes", "09:30-11:30"))
	assert.True(t, p.UnavailableOn("2025-10-06"))
}

func TestProfessor_EmptyWorkDaysMeansAllDays(t *testing.T) {
	p := &Professor{}
	assert.True(t, p.WorksOn("Lunes"))
	assert.True(t, p.WorksOn("Domingo"))
}

func TestClassroom_Serves(t *testing.T) {
	room := &Classroom{Capacity: 24, Available: true, Subjects: []string{"Física I"}}
	assert.True(t, room.Serves("Física I"))
	assert.False(t, room.Serves("Química"))

	room.Available = false
	assert.False(t, room.Serves("Física I"))
}
