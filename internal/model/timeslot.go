package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotsPerDay is the number of bookable hourly marks in a diary day.
const SlotsPerDay = 24

// Slots returns the fixed ordered slot enumeration "0:00" .. "23:00".
func Slots() []string {
	slots := make([]string, SlotsPerDay)
	for h := 0; h < SlotsPerDay; h++ {
		slots[h] = FormatSlot(h)
	}
	return slots
}

// FormatSlot renders an hour as a slot mark, e.g. 9 -> "9:00".
func FormatSlot(hour int) string {
	return strconv.Itoa(hour) + ":00"
}

// ParseSlot parses a slot mark back into its hour. Comparison is always done
// on parsed hours, never on the raw strings ("9:00" > "10:00" lexicographically).
func ParseSlot(s string) (int, error) {
	head, tail, found := strings.Cut(s, ":")
	if !found || tail != "00" {
		return 0, fmt.Errorf("invalid time slot %q", s)
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour >= SlotsPerDay {
		return 0, fmt.Errorf("invalid time slot %q", s)
	}
	return hour, nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// Occupies reports whether a booking spanning [start,end) covers the given
// hourly slot.
func Occupies(hour, start, end int) bool {
	return start <= hour && hour < end
}
