package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTimeSlot canonicalizes an "HH:MM-HH:MM" slot, zero-padding
// single-digit hours so "9:30-11:30" and "09:30-11:30" compare equal.
// Strings that do not look like a slot are returned trimmed.
func NormalizeTimeSlot(slot string) string {
	parts := strings.Split(strings.TrimSpace(slot), "-")
	if len(parts) != 2 {
		return strings.TrimSpace(slot)
	}
	start, okStart := padClock(parts[0])
	end, okEnd := padClock(parts[1])
	if !okStart || !okEnd {
		return strings.TrimSpace(slot)
	}
	return start + "-" + end
}

func padClock(s string) (string, bool) {
	hm := strings.Split(strings.TrimSpace(s), ":")
	if len(hm) != 2 {
		return "", false
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// SlotStartMinutes returns the slot's start time as minutes since
// midnight, 0 when the slot cannot be parsed.
func SlotStartMinutes(slot string) int {
	parts := strings.Split(strings.TrimSpace(slot), "-")
	hm := strings.Split(strings.TrimSpace(parts[0]), ":")
	if len(hm) != 2 {
		return 0
	}
	h, errH := strconv.Atoi(hm[0])
	m, errM := strconv.Atoi(hm[1])
	if errH != nil || errM != nil {
		return 0
	}
	return h*60 + m
}
