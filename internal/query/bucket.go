package query

import (
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// Bucket is one time-of-day window. Buckets are inclusive on both ends and
// the configured set must partition the day with no gap or overlap.
type Bucket struct {
	Name  string
	Start event.ClockTime
	End   event.ClockTime
}

// Buckets partitions the day into the three windows the query surface
// exposes: morning 00:00–11:59, afternoon 12:00–16:59, evening 17:00–23:59.
var Buckets = []Bucket{
	{Name: "morning", Start: event.NewClockTime(0, 0), End: event.NewClockTime(11, 59)},
	{Name: "afternoon", Start: event.NewClockTime(12, 0), End: event.NewClockTime(16, 59)},
	{Name: "evening", Start: event.NewClockTime(17, 0), End: event.NewClockTime(23, 59)},
}

// BucketByName looks up a bucket by its case-insensitive name.
func BucketByName(name string) (Bucket, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range Buckets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}

// Contains reports whether the time of day falls inside the bucket.
func (b Bucket) Contains(t event.ClockTime) bool {
	m := t.Minutes()
	return m >= b.Start.Minutes() && m <= b.End.Minutes()
}
