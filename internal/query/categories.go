package query

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/match"
	"github.com/pfrederiksen/campus-events/internal/normalize"
)

// CategoryGroup is one display bucket of related category labels.
type CategoryGroup struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

// otherGroup collects labels no display bucket claims.
const otherGroup = "Other"

// categoryGroups maps a display bucket to the keywords that pull a label
// into it. A label joins the first bucket whose keyword it contains.
var categoryGroups = []struct {
	name     string
	keywords []string
}{
	{"Academic", []string{"academic", "lecture", "seminar", "research", "workshop", "study", "thesis"}},
	{"Arts & Culture", []string{"art", "music", "concert", "theatre", "theater", "film", "dance", "culture", "gallery"}},
	{"Sports & Recreation", []string{"sport", "athletic", "recreation", "fitness", "intramural", "game"}},
	{"Careers", []string{"career", "job", "employer", "networking", "professional", "co-op"}},
	{"Wellness", []string{"wellness", "health", "mindfulness", "mental"}},
	{"Social", []string{"social", "club", "community", "festival", "society", "residence"}},
}

// Categories returns the distinct normalized category labels in the
// snapshot, grouped into fixed display buckets. Unmapped labels land in the
// "Other" bucket; empty buckets are omitted.
func Categories(snap *event.Snapshot) []CategoryGroup {
	seen := make(map[string]bool)
	var labels []string
	for _, evt := range snap.Events {
		for _, label := range evt.Categories {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)

	grouped := make(map[string][]string)
	for _, label := range labels {
		grouped[groupFor(label)] = append(grouped[groupFor(label)], label)
	}

	var groups []CategoryGroup
	for _, g := range categoryGroups {
		if len(grouped[g.name]) > 0 {
			groups = append(groups, CategoryGroup{Name: g.name, Labels: grouped[g.name]})
		}
	}
	if len(grouped[otherGroup]) > 0 {
		groups = append(groups, CategoryGroup{Name: otherGroup, Labels: grouped[otherGroup]})
	}
	return groups
}

func groupFor(label string) string {
	for _, g := range categoryGroups {
		for _, kw := range g.keywords {
			if strings.Contains(label, kw) {
				return g.name
			}
		}
	}
	return otherGroup
}

// label match ranks, strongest first.
const (
	rankExact     = 3
	rankSubstring = 2
	rankSimilar   = 1
)

// ByCategory returns events with a category label matching the query:
// exactly, as a substring in either direction, or by similarity above the
// category threshold. Results order by match strength (exact, then
// substring, then similarity score), falling back to the canonical event
// order.
func ByCategory(snap *event.Snapshot, category string, scorer match.Scorer) []*event.Event {
	query := normalize.NormalizeCategory(category)
	if query == "" {
		return nil
	}

	type scored struct {
		evt   *event.Event
		rank  int
		score float64
	}

	var matched []scored
	for _, evt := range snap.Events {
		rank, score := 0, 0.0
		for _, label := range evt.Categories {
			r, s := labelMatch(label, query, scorer)
			if r > rank || (r == rank && s > score) {
				rank, score = r, s
			}
		}
		if rank > 0 {
			matched = append(matched, scored{evt: evt, rank: rank, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].rank != matched[j].rank {
			return matched[i].rank > matched[j].rank
		}
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return event.Less(matched[i].evt, matched[j].evt)
	})

	events := make([]*event.Event, len(matched))
	for i, m := range matched {
		events[i] = m.evt
	}
	return events
}

// labelMatch rates one stored label against a normalized query.
func labelMatch(label, query string, scorer match.Scorer) (int, float64) {
	if label == query {
		return rankExact, 1
	}
	if strings.Contains(label, query) || strings.Contains(query, label) {
		return rankSubstring, 1
	}
	if score := scorer.Score(label, query); score >= match.CategoryThreshold {
		return rankSimilar, score
	}
	return 0, 0
}

// Detail finds the single best event for a detail query: exact ID match
// first, then exact case-insensitive title, then the highest-scoring title
// above the title threshold. Returns nil when nothing clears the threshold;
// that is a normal outcome, not an error.
func Detail(snap *event.Snapshot, query string, scorer match.Scorer) *event.Event {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	for _, evt := range snap.Events {
		if evt.ID == query {
			return evt
		}
	}

	for _, evt := range snap.Events {
		if strings.EqualFold(evt.Title, query) {
			return evt
		}
	}

	var best *event.Event
	bestScore := 0.0
	for _, evt := range snap.Events {
		if score := scorer.Score(evt.Title, query); score > bestScore {
			best, bestScore = evt, score
		}
	}
	if bestScore < match.TitleThreshold {
		return nil
	}
	return best
}
