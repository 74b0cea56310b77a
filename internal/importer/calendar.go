package importer

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/olabarga/labplan/internal/domain"
)

// CalendarEntry is one teaching day lifted from a published calendar.
type CalendarEntry struct {
	Date    string // ISO yyyy-mm-dd
	Weekday string // canonical Spanish weekday name
}

// CalendarTable groups the dated rows of one HTML table together with
// the heading text nearest to it, used to tell semesters apart.
type CalendarTable struct {
	Caption string
	Entries []CalendarEntry
}

var (
	dmyPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	isoPattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

// ParseCalendarHTML extracts dated rows from every table in the
// document, in document order. A table contributes one entry per
// distinct date; tables without a single parseable date are dropped.
func ParseCalendarHTML(r io.Reader) ([]CalendarTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar HTML: %w", err)
	}

	var tables []CalendarTable
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		table := CalendarTable{Caption: tableCaption(tbl)}
		seen := map[string]bool{}
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			date, ok := rowDate(tr)
			if !ok || seen[date] {
				return
			}
			seen[date] = true
			table.Entries = append(table.Entries, CalendarEntry{Date: date, Weekday: weekdayOf(date)})
		})
		if len(table.Entries) > 0 {
			sort.Slice(table.Entries, func(i, j int) bool { return table.Entries[i].Date < table.Entries[j].Date })
			tables = append(tables, table)
		}
	})
	return tables, nil
}

// semesterMarkers are the caption fragments, after normalizeHeader,
// that identify each semester's table on the published page.
var semesterMarkers = map[string][]string{
	"1": {"primer", "1er", "1o", "semestre 1"},
	"2": {"segundo", "2o", "2do", "semestre 2"},
}

// TableForSemester picks the table whose caption names the given
// semester ordinal ("1" or "2"). A lone table is accepted without
// consulting its caption.
func TableForSemester(tables []CalendarTable, semester string) (*CalendarTable, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no calendar table with dates found")
	}
	if len(tables) == 1 {
		return &tables[0], nil
	}

	var matches []*CalendarTable
	for i := range tables {
		caption := normalizeHeader(tables[i].Caption)
		for _, marker := range semesterMarkers[semester] {
			if strings.Contains(caption, marker) {
				matches = append(matches, &tables[i])
				break
			}
		}
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%d calendar tables found, %d matching semester %s; table captions must name the semester", len(tables), len(matches), semester)
	}
	return matches[0], nil
}

// rowDate scans a row's cells for the first parseable date, in either
// dd/mm/yyyy or ISO form, and returns it as ISO.
func rowDate(tr *goquery.Selection) (string, bool) {
	var found string
	tr.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if m := dmyPattern.FindString(text); m != "" {
			if t, err := time.Parse("2/1/2006", m); err == nil {
				found = t.Format("2006-01-02")
				return false
			}
		}
		if m := isoPattern.FindString(text); m != "" {
			if _, err := time.Parse("2006-01-02", m); err == nil {
				found = m
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// tableCaption prefers the table's own caption, then the closest
// preceding heading.
func tableCaption(tbl *goquery.Selection) string {
	if c := strings.TrimSpace(tbl.Find("caption").First().Text()); c != "" {
		return c
	}
	return strings.TrimSpace(tbl.PrevAllFiltered("h1, h2, h3, h4").First().Text())
}

func weekdayOf(isoDate string) string {
	t, _ := time.Parse("2006-01-02", isoDate)
	return domain.Weekdays[(int(t.Weekday())+6)%7]
}
