package normalize

import (
	"html"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/feed"
)

// maxDescriptionLen caps the sanitized description so a runaway entry doesn't
// bloat every query response.
const maxDescriptionLen = 2048

var stripPolicy = bluemonday.StrictPolicy()

// Normalize converts raw feed entries into the ordered sequence of normalized
// events. The reference instant resolves year-less dates and anchors the
// plausibility window; for a fixed reference the function is pure and
// deterministic.
//
// Entries that normalize to an already-seen ID replace the earlier record
// (feeds occasionally repeat announcements). Entries without a title are
// dropped and counted; everything else is retained even when no date, time,
// or location could be extracted.
func Normalize(entries []feed.Entry, reference time.Time) []*event.Event {
	out := make([]*event.Event, 0, len(entries))
	index := make(map[string]int, len(entries))
	dropped := 0

	for _, entry := range entries {
		evt, ok := normalizeEntry(entry, reference)
		if !ok {
			dropped++
			continue
		}
		if i, seen := index[evt.ID]; seen {
			out[i] = evt
			continue
		}
		index[evt.ID] = len(out)
		out = append(out, evt)
	}

	if dropped > 0 {
		slog.Debug("dropped feed entries with no title", "count", dropped)
	}

	return out
}

// normalizeEntry builds a single Event from a raw entry. Returns false when
// the entry lacks even a minimal {id, title} pair.
func normalizeEntry(entry feed.Entry, reference time.Time) (*event.Event, bool) {
	title := collapseWhitespace(html.UnescapeString(entry.Title))
	if title == "" {
		return nil, false
	}

	identity := entry.Link
	if strings.TrimSpace(identity) == "" {
		identity = entry.GUID
	}

	evt := &event.Event{
		ID:             event.GenerateID(identity, title, entry.Description),
		Title:          title,
		Description:    sanitizeDescription(entry.Description),
		RawDescription: entry.Description,
		Link:           strings.TrimSpace(entry.Link),
		Categories:     normalizeCategories(entry.Categories),
	}

	// Scan the title first, then the description: titles are short and less
	// likely to contain spurious matches.
	text := title + "\n" + evt.Description

	if span, ok := extractDateSpan(text, reference); ok {
		start, end := span.Start, span.End
		evt.StartDate, evt.EndDate = &start, &end
	}

	if tr, ok := extractTimeRange(text); ok {
		start := tr.Start
		evt.StartTime = &start
		if tr.HasEnd {
			end := tr.End
			evt.EndTime = &end
			// An explicit range with end before start crosses midnight.
			if end.Before(start) && evt.StartDate != nil && evt.EndDate.Equal(*evt.StartDate) {
				next := evt.StartDate.AddDays(1)
				evt.EndDate = &next
			}
		}
	}

	if loc, ok := extractLocation(entry.Description); ok {
		evt.Location = loc
	}

	return evt, true
}

// sanitizeDescription strips all HTML from the raw description and collapses
// it into a bounded plain-text line.
func sanitizeDescription(s string) string {
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = collapseWhitespace(s)
	if len(s) > maxDescriptionLen {
		s = s[:maxDescriptionLen]
	}
	return s
}

// NormalizeCategory canonicalizes a category label: case-folded, trimmed,
// internal whitespace collapsed. The query engine applies the same rule to
// caller-supplied category queries so lookups compare like with like.
func NormalizeCategory(label string) string {
	return strings.ToLower(collapseWhitespace(label))
}

// normalizeCategories canonicalizes a label set, dropping empties and
// duplicates. The result is sorted so normalization stays deterministic
// regardless of feed order.
func normalizeCategories(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		norm := NormalizeCategory(html.UnescapeString(label))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// collapseWhitespace trims the string and squeezes runs of whitespace
// (including newlines) into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
