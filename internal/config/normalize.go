package config

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/olabarga/labplan/internal/domain"
)

// SemesterKey canonicalizes the semester spellings found in documents:
// "1", "semestre_1" and "1º Semestre" all map to "semestre_1". Strings
// with no digit are returned lowercased and trimmed.
func SemesterKey(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return ""
	}
	if strings.HasPrefix(t, "semestre_") {
		return t
	}
	digits := firstDigitRun(t)
	if digits != "" {
		return "semestre_" + digits
	}
	return t
}

func firstDigitRun(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}

// Normalize canonicalizes the typed view of a document: semester keys,
// weekday spellings, time slot spellings, grid cell letters and mixed
// flags, and the decoded calendar. The preserved raw form is untouched.
func Normalize(doc *Document) {
	if doc == nil || doc.Config == nil {
		return
	}
	cfg := doc.Config
	if cfg.Schedules != nil {
		normalizeSchedules(cfg.Schedules)
	}
	if cfg.Calendar != nil {
		normalizeCalendar(cfg.Calendar)
	}
}

func normalizeSchedules(sec *SchedulesSection) {
	if sec.Data == nil {
		return
	}
	normalized := make(map[string]SemesterSchedules, len(sec.Data))
	for semKey, subjects := range sec.Data {
		key := SemesterKey(semKey)
		if normalized[key] == nil {
			normalized[key] = SemesterSchedules{}
		}
		for subject, sched := range subjects {
			if sched != nil {
				sched.Grid = normalizeGrid(sched.Grid)
			}
			normalized[key][subject] = sched
		}
	}
	sec.Data = normalized
}

func normalizeGrid(grid Grid) Grid {
	if grid == nil {
		return nil
	}
	out := make(Grid, len(grid))
	for slot, days := range grid {
		slotKey := domain.NormalizeTimeSlot(slot)
		if out[slotKey] == nil {
			out[slotKey] = make(map[string]*GridCell, len(days))
		}
		for day, cell := range days {
			dayKey := domain.NormalizeWeekday(day)
			out[slotKey][dayKey] = normalizeCell(cell)
		}
	}
	return out
}

func normalizeCell(cell *GridCell) *GridCell {
	if cell == nil {
		return nil
	}
	for i, g := range cell.Groups {
		cell.Groups[i] = strings.TrimSpace(g)
	}
	letters := make([]string, 0, len(cell.Letters))
	seen := map[string]bool{}
	for _, l := range cell.Letters {
		u := strings.ToUpper(strings.TrimSpace(l))
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		letters = append(letters, u)
	}
	sort.Strings(letters)
	cell.Letters = letters
	if cell.Mixed == nil {
		mixed := cell.IsMixed()
		cell.Mixed = &mixed
	}
	return cell
}

// normalizeCalendar decodes the raw datos object. Semester blocks become
// dated-session maps; the sibling metadata block, whose field types vary
// between editor versions, is decoded weakly. Sections built in memory
// with Semesters already populated are left as they are.
func normalizeCalendar(sec *CalendarSection) {
	if sec.Data == nil {
		if sec.Semesters == nil {
			sec.Semesters = map[string]map[string]*CalendarDay{}
		}
		return
	}
	sec.Semesters = map[string]map[string]*CalendarDay{}
	for key, raw := range sec.Data {
		if strings.EqualFold(strings.TrimSpace(key), "metadata") {
			var m map[string]any
			if err := json.Unmarshal(raw, &m); err != nil {
				continue
			}
			var meta CalendarMetadata
			if err := mapstructure.WeakDecode(m, &meta); err == nil {
				sec.Metadata = &meta
			}
			continue
		}
		var days map[string]*CalendarDay
		if err := json.Unmarshal(raw, &days); err != nil {
			continue
		}
		for _, day := range days {
			if day != nil {
				day.Weekday = domain.NormalizeWeekday(day.Weekday)
				day.Date = strings.TrimSpace(day.Date)
			}
		}
		sec.Semesters[SemesterKey(key)] = days
	}
}
