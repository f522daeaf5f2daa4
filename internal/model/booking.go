package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for diary dates (no time component).
const DateLayout = "2006-01-02"

// DiaryEntry is one engineer's scheduled time allocation to a site/call on a
// given date and hour range. Start and end are slot marks from the fixed
// enumeration; the interval is half-open.
type DiaryEntry struct {
	ID         int64  `json:"id,omitempty"`
	EngineerID int64  `json:"engineerId"`
	SiteID     int64  `json:"siteId"`
	CallID     int64  `json:"callId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Notes      string `json:"notes,omitempty"`

	CreatedBy int64     `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Hours parses the entry's slot marks into integer hours.
func (e *DiaryEntry) Hours() (start, end int, err error) {
	start, err = ParseSlot(e.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseSlot(e.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// OverlapsEntry reports whether two entries for the same engineer and date
// collide. Entries with unparseable times never match.
func (e *DiaryEntry) OverlapsEntry(other *DiaryEntry) bool {
	if e.EngineerID != other.EngineerID || e.Date != other.Date {
		return false
	}
	s1, e1, err := e.Hours()
	if err != nil {
		return false
	}
	s2, e2, err := other.Hours()
	if err != nil {
		return false
	}
	return Overlaps(s1, e1, s2, e2)
}

// ParseDate validates a wire-format diary date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
