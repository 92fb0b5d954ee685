package event

import (
	"sort"
	"strings"
	"time"
)

// Snapshot holds the full normalized event set from one successful fetch
// cycle plus the time it was fetched. A snapshot is built once, never edited,
// and replaced wholesale on refresh, so readers can hold a reference without
// locking.
type Snapshot struct {
	Events    []*Event  `json:"events"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewSnapshot creates a snapshot over the given events, sorted into the
// canonical order.
func NewSnapshot(events []*Event, fetchedAt time.Time) *Snapshot {
	sorted := make([]*Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)
	return &Snapshot{Events: sorted, FetchedAt: fetchedAt}
}

// SortEvents orders events by start date ascending with dateless events last.
// Ties are broken by lowercased title, then by ID so the order is fully
// deterministic.
func SortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return Less(events[i], events[j])
	})
}

// Less reports whether event a sorts before event b in the canonical order.
func Less(a, b *Event) bool {
	switch {
	case a.StartDate != nil && b.StartDate != nil:
		if !a.StartDate.Equal(*b.StartDate) {
			return a.StartDate.Before(*b.StartDate)
		}
	case a.StartDate != nil:
		return true
	case b.StartDate != nil:
		return false
	}

	ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
	if ta != tb {
		return ta < tb
	}
	return a.ID < b.ID
}
