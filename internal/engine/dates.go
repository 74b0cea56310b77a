package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// DateCalculator runs FASE 2: for every group that passed validation it
// derives the concrete session dates of each rotation letter, weekday by
// weekday.
type DateCalculator struct {
	store   *config.Store
	workers int
}

func NewDateCalculator(store *config.Store, workers int) *DateCalculator {
	return &DateCalculator{store: store, workers: workers}
}

type groupDates struct {
	diags   domain.DiagnosticList
	entries []dateEntry
}

type dateEntry struct {
	key   domain.DateKey
	dates []time.Time
}

// Run computes the date map. Groups are independent, so they fan out
// over the worker pool and merge back in key order. ok is true when no
// critical diagnostic was produced; missing calendar dates only warn.
func (c *DateCalculator) Run(maxLetters map[domain.GroupKey]int) (ok bool, dates map[domain.DateKey][]time.Time, diags domain.DiagnosticList) {
	keys := make([]domain.GroupKey, 0, len(maxLetters))
	for k := range maxLetters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	results := make([]groupDates, len(keys))
	runIndexed(c.workers, len(keys), func(i int) {
		results[i] = c.computeGroup(keys[i], maxLetters[keys[i]])
	})

	dates = map[domain.DateKey][]time.Time{}
	for _, res := range results {
		diags = append(diags, res.diags...)
		for _, e := range res.entries {
			dates[e.key] = e.dates
		}
	}
	return !diags.HasCritical(), dates, diags
}

// computeGroup partitions one group's eligible calendar dates.
// Round-robin by index, not contiguous blocks: letter sessions spread
// across the semester instead of clustering one letter early and
// another late.
func (c *DateCalculator) computeGroup(key domain.GroupKey, maxLetters int) groupDates {
	var res groupDates

	startWeek := c.startWeekOf(key)
	if startWeek < 1 || maxLetters < 1 {
		return res
	}

	weekdayLetters := c.lettersByWeekday(key)
	weekdays := make([]string, 0, len(weekdayLetters))
	for day := range weekdayLetters {
		weekdays = append(weekdays, day)
	}
	sort.Slice(weekdays, func(i, j int) bool {
		return domain.WeekdayRank(weekdays[i]) < domain.WeekdayRank(weekdays[j])
	})

	for _, weekday := range weekdays {
		pool := c.store.CalendarDates(key.Semester, weekday)
		if len(pool) == 0 {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseDates,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s meets on %s but the calendar has no dated sessions for that weekday", key.Group, weekday),
				Detail:   map[string]any{"semestre": key.Semester, "asignatura": key.Subject, "grupo": key.Group, "dia": weekday},
			})
			continue
		}
		if startWeek-1 >= len(pool) {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseDates,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s has no eligible %s dates after start week %d", key.Group, weekday, startWeek),
				Detail: map[string]any{
					"semestre": key.Semester, "asignatura": key.Subject, "grupo": key.Group,
					"dia": weekday, "semana_inicio": startWeek, "fechas_calendario": len(pool),
				},
			})
			continue
		}

		eligible := pool[startWeek-1:]
		buckets := make([][]time.Time, maxLetters)
		for i, d := range eligible {
			buckets[i%maxLetters] = append(buckets[i%maxLetters], d)
		}

		for i, bucket := range buckets {
			letter := string(rune('A' + i))
			if !weekdayLetters[weekday][letter] || len(bucket) == 0 {
				continue
			}
			res.entries = append(res.entries, dateEntry{
				key:   domain.DateKey{GroupKey: key, Weekday: weekday, Letter: letter},
				dates: bucket,
			})
		}
	}
	return res
}

// lettersByWeekday collects, per weekday, the letters of every grid cell
// referencing the group. Only letters present here receive dates.
func (c *DateCalculator) lettersByWeekday(key domain.GroupKey) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, gs := range c.store.GridSlots(key.Semester, key.Subject) {
		if !containsCode(gs.Cell.Groups, key.Group) {
			continue
		}
		if out[gs.Weekday] == nil {
			out[gs.Weekday] = map[string]bool{}
		}
		for _, l := range gs.Cell.Letters {
			out[gs.Weekday][l] = true
		}
	}
	return out
}

func (c *DateCalculator) startWeekOf(key domain.GroupKey) int {
	subj := c.store.Subject(key.Subject)
	if subj == nil {
		return 0
	}
	group := subj.Groups[key.Group]
	if group == nil || group.LabConfig == nil || group.LabConfig.StartWeek == nil {
		return 0
	}
	return *group.LabConfig.StartWeek
}
