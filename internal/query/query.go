// Package query answers read-only questions over a feed snapshot.
//
// Every operation takes the snapshot it works on, borrows it for the
// duration of one call, and never mutates it. Results come back in the
// canonical event order: start date ascending, dateless events last, ties by
// title.
package query

import (
	"errors"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// ErrInvalidRange indicates the caller supplied a range whose start falls
// after its end.
var ErrInvalidRange = errors.New("invalid date range: start is after end")

// Search returns events where the query appears, case-insensitively, as a
// substring of the title, description, location, or any category label.
func Search(snap *event.Snapshot, query string) []*event.Event {
	query = strings.ToLower(strings.TrimSpace(query))

	var matched []*event.Event
	for _, evt := range snap.Events {
		if matchesKeyword(evt, query) {
			matched = append(matched, evt)
		}
	}
	event.SortEvents(matched)
	return matched
}

func matchesKeyword(evt *event.Event, query string) bool {
	if strings.Contains(strings.ToLower(evt.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(evt.Description), query) {
		return true
	}
	if strings.Contains(strings.ToLower(evt.Location), query) {
		return true
	}
	for _, label := range evt.Categories {
		if strings.Contains(label, query) {
			return true
		}
	}
	return false
}

// ByDate returns events whose date interval contains the given day.
func ByDate(snap *event.Snapshot, date event.Date) []*event.Event {
	var matched []*event.Event
	for _, evt := range snap.Events {
		if evt.OccursOn(date) {
			matched = append(matched, evt)
		}
	}
	event.SortEvents(matched)
	return matched
}

// ByRange returns events whose date interval overlaps [start, end]. Both
// bounds are inclusive. Fails with ErrInvalidRange when start is after end.
func ByRange(snap *event.Snapshot, start, end event.Date) ([]*event.Event, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	var matched []*event.Event
	for _, evt := range snap.Events {
		if evt.Overlaps(start, end) {
			matched = append(matched, evt)
		}
	}
	event.SortEvents(matched)
	return matched, nil
}

// Upcoming returns events within [today, today+days].
func Upcoming(snap *event.Snapshot, today event.Date, days int) []*event.Event {
	matched, _ := ByRange(snap, today, today.AddDays(days))
	return matched
}

// ByTimeOfDay returns events on the given day whose start time falls inside
// the bucket. Events without an extracted start time are excluded; they still
// answer date-only queries.
func ByTimeOfDay(snap *event.Snapshot, date event.Date, bucket Bucket) []*event.Event {
	var matched []*event.Event
	for _, evt := range ByDate(snap, date) {
		if evt.StartTime == nil {
			continue
		}
		if bucket.Contains(*evt.StartTime) {
			matched = append(matched, evt)
		}
	}
	return matched
}

// ThisWeek returns events in the ISO Monday–Sunday week containing today.
func ThisWeek(snap *event.Snapshot, today event.Date) []*event.Event {
	start, end := WeekInterval(today, false)
	matched, _ := ByRange(snap, start, end)
	return matched
}

// NextWeek returns events in the ISO week after the one containing today.
func NextWeek(snap *event.Snapshot, today event.Date) []*event.Event {
	start, end := WeekInterval(today, true)
	matched, _ := ByRange(snap, start, end)
	return matched
}

// Weekend returns events on the Saturday–Sunday pair at or after the
// reference date. A reference that already falls on a Saturday or Sunday
// resolves to its own weekend, never a past one.
func Weekend(snap *event.Snapshot, reference event.Date) []*event.Event {
	start, end := WeekendInterval(reference)
	matched, _ := ByRange(snap, start, end)
	return matched
}

// WeekInterval computes the Monday–Sunday interval containing today, or the
// following week's interval when next is set. Weeks use ISO numbering:
// Monday is the first day.
func WeekInterval(today event.Date, next bool) (event.Date, event.Date) {
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDays(-offset)
	if next {
		monday = monday.AddDays(7)
	}
	return monday, monday.AddDays(6)
}

// WeekendInterval computes the Saturday–Sunday pair at or after the
// reference date. Saturday maps to itself; Sunday maps back one day so the
// pair in progress is kept.
func WeekendInterval(reference event.Date) (event.Date, event.Date) {
	var saturday event.Date
	switch reference.Weekday() {
	case time.Saturday:
		saturday = reference
	case time.Sunday:
		saturday = reference.AddDays(-1)
	default:
		daysUntil := (int(time.Saturday) - int(reference.Weekday()) + 7) % 7
		saturday = reference.AddDays(daysUntil)
	}
	return saturday, saturday.AddDays(1)
}
