package domain

import "strings"

// Weekdays lists the Spanish weekday names in calendar order, the
// spelling used throughout configuration documents.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// weekdayRanks accepts accented and unaccented spellings; documents in
// the wild carry both.
var weekdayRanks = map[string]int{
	"lunes": 0, "martes": 1,
	"miércoles": 2, "miercoles": 2,
	"jueves": 3, "viernes": 4,
	"sábado": 5, "sabado": 5,
	"domingo": 6,
}

// WeekdayRank returns the position of the weekday in the week, Lunes
// first. Unknown names sort after every real weekday.
func WeekdayRank(name string) int {
	if r, ok := weekdayRanks[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r
	}
	return len(Weekdays)
}

// NormalizeWeekday maps any accepted spelling to the canonical accented
// form. Unknown names are returned trimmed but otherwise unchanged.
func NormalizeWeekday(name string) string {
	trimmed := strings.TrimSpace(name)
	if r, ok := weekdayRanks[strings.ToLower(trimmed)]; ok {
		return Weekdays[r]
	}
	return trimmed
}
