package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarHTMLFixture = `
<html><body>
<h3>Calendario 1er semestre</h3>
<table>
  <tr><th>Fecha</th><th>Día</th></tr>
  <tr><td>09/02/2026</td><td>Lunes</td></tr>
  <tr><td>02/02/2026</td><td>Lunes</td></tr>
  <tr><td>02/02/2026</td><td>duplicada</td></tr>
  <tr><td>sin fecha</td><td></td></tr>
</table>
<h3>Calendario 2o semestre</h3>
<table>
  <tr><td>2026-09-07</td><td>Lunes</td></tr>
  <tr><td>8/9/2026</td><td>Martes</td></tr>
</table>
<table><tr><td>leyenda</td></tr></table>
</body></html>`

func TestParseCalendarHTML_ExtractsSortedDedupedEntries(t *testing.T) {
	tables, err := ParseCalendarHTML(strings.NewReader(calendarHTMLFixture))
	require.NoError(t, err)

	// The dateless legend table is dropped.
	require.Len(t, tables, 2)

	first := tables[0]
	assert.Equal(t, "Calendario 1er semestre", first.Caption)
	require.Len(t, first.Entries, 2)
	assert.Equal(t, CalendarEntry{Date: "2026-02-02", Weekday: "Lunes"}, first.Entries[0])
	assert.Equal(t, CalendarEntry{Date: "2026-02-09", Weekday: "Lunes"}, first.Entries[1])
}

func TestParseCalendarHTML_AcceptsISOAndShortDates(t *testing.T) {
	tables, err := ParseCalendarHTML(strings.NewReader(calendarHTMLFixture))
	require.NoError(t, err)

	second := tables[1]
	require.Len(t, second.Entries, 2)
	assert.Equal(t, CalendarEntry{Date: "2026-09-07", Weekday: "Lunes"}, second.Entries[0])
	assert.Equal(t, CalendarEntry{Date: "2026-09-08", Weekday: "Martes"}, second.Entries[1])
}

func TestParseCalendarHTML_UsesTableCaption(t *testing.T) {
	html := `<table><caption>Segundo semestre</caption><tr><td>07/09/2026</td></tr></table>`
	tables, err := ParseCalendarHTML(strings.NewReader(html))
	require.NoError(t, err)

	require.Len(t, tables, 1)
	assert.Equal(t, "Segundo semestre", tables[0].Caption)
}

func TestTableForSemester_PicksByCaption(t *testing.T) {
	tables, err := ParseCalendarHTML(strings.NewReader(calendarHTMLFixture))
	require.NoError(t, err)

	first, err := TableForSemester(tables, "1")
	require.NoError(t, err)
	assert.Equal(t, "Calendario 1er semestre", first.Caption)

	second, err := TableForSemester(tables, "2")
	require.NoError(t, err)
	assert.Equal(t, "Calendario 2o semestre", second.Caption)
}

func TestTableForSemester_SingleTableNeedsNoCaption(t *testing.T) {
	tables := []CalendarTable{{Caption: "", Entries: []CalendarEntry{{Date: "2026-02-02", Weekday: "Lunes"}}}}

	got, err := TableForSemester(tables, "2")
	require.NoError(t, err)
	assert.Equal(t, &tables[0], got)
}

func TestTableForSemester_AmbiguousCaptionsFail(t *testing.T) {
	tables := []CalendarTable{
		{Caption: "Laboratorios", Entries: []CalendarEntry{{Date: "2026-02-02"}}},
		{Caption: "Exámenes", Entries: []CalendarEntry{{Date: "2026-02-03"}}},
	}
	_, err := TableForSemester(tables, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "captions must name the semester")
}

func TestTableForSemester_NoTables(t *testing.T) {
	_, err := TableForSemester(nil, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no calendar table")
}
