package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Event represents a single normalized entry from the campus events feed.
// An Event is immutable once constructed for a given fetch cycle: the
// normalizer builds a fresh set on every refresh and never edits records in
// place.
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	RawDescription string     `json:"raw_description,omitempty"`
	StartDate      *Date      `json:"start_date,omitempty"`
	EndDate        *Date      `json:"end_date,omitempty"`
	StartTime      *ClockTime `json:"start_time,omitempty"`
	EndTime        *ClockTime `json:"end_time,omitempty"`
	Location       string     `json:"location,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	Link           string     `json:"link,omitempty"`
}

// GenerateID creates a deterministic ID for an event. The source link is the
// preferred identity since the feed guarantees it is unique per entry; when
// the link is missing the ID falls back to a hash of title and description.
func GenerateID(link, title, description string) string {
	link = strings.TrimSpace(link)
	if link != "" {
		return fmt.Sprintf("%x", sha1.Sum([]byte(link)))
	}
	return fmt.Sprintf("%x", sha1.Sum([]byte(title+"|"+description)))
}

// HasDate reports whether a date signal was extracted for the event.
func (e *Event) HasDate() bool {
	return e.StartDate != nil
}

// HasTime reports whether a start time signal was extracted for the event.
// Events without a time are excluded from time-of-day queries but still
// answer date-only queries.
func (e *Event) HasTime() bool {
	return e.StartTime != nil
}

// OccursOn reports whether the event's date interval contains the given day.
// Events with no extracted date never occur on any day.
func (e *Event) OccursOn(d Date) bool {
	if e.StartDate == nil {
		return false
	}
	end := *e.StartDate
	if e.EndDate != nil {
		end = *e.EndDate
	}
	return !d.Before(*e.StartDate) && !d.After(end)
}

// Overlaps reports whether the event's date interval overlaps [start, end].
func (e *Event) Overlaps(start, end Date) bool {
	if e.StartDate == nil {
		return false
	}
	evtEnd := *e.StartDate
	if e.EndDate != nil {
		evtEnd = *e.EndDate
	}
	return !e.StartDate.After(end) && !evtEnd.Before(start)
}
