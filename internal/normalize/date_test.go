package normalize

import (
	"testing"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// reference instant for deterministic extraction tests.
var ref = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func TestExtractDateSpan(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantStart event.Date
		wantEnd   event.Date
		wantNone  bool
	}{
		{
			name:      "iso date",
			text:      "Conference on 2025-05-09 in the main hall",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 9),
		},
		{
			name:      "iso range",
			text:      "Orientation week 2025-09-01 to 2025-09-05",
			wantStart: event.NewDate(2025, time.September, 1),
			wantEnd:   event.NewDate(2025, time.September, 5),
		},
		{
			name:      "iso range inverted is swapped",
			text:      "2025-09-05 to 2025-09-01",
			wantStart: event.NewDate(2025, time.September, 1),
			wantEnd:   event.NewDate(2025, time.September, 5),
		},
		{
			name:      "weekday prefix with month name",
			text:      "Join us Fri, May 9 at 8:00 PM",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 9),
		},
		{
			name:      "month name with explicit year",
			text:      "Gala on May 9, 2025 in the ballroom",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 9),
		},
		{
			name:      "full month name with ordinal",
			text:      "December 3rd concert",
			wantStart: event.NewDate(2025, time.December, 3),
			wantEnd:   event.NewDate(2025, time.December, 3),
		},
		{
			name:      "same month day range",
			text:      "Exhibit runs May 9 - 11",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 11),
		},
		{
			name:      "cross month range",
			text:      "Residency May 28 to Jun 2",
			wantStart: event.NewDate(2025, time.May, 28),
			wantEnd:   event.NewDate(2025, time.June, 2),
		},
		{
			name:      "numeric us format",
			text:      "Deadline 05/09/2025 at noon",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 9),
		},
		{
			name:      "numeric two digit year",
			text:      "Game day 5/9/25",
			wantStart: event.NewDate(2025, time.May, 9),
			wantEnd:   event.NewDate(2025, time.May, 9),
		},
		{
			name:     "implausible year rejected",
			text:     "Founded January 1, 1964, the society meets weekly",
			wantNone: true,
		},
		{
			name:     "invalid calendar day rejected",
			text:     "Meet on 2025-02-30 maybe",
			wantNone: true,
		},
		{
			name:     "no date signal",
			text:     "Drop-in advising in the library",
			wantNone: true,
		},
		{
			name:     "bare numbers are not dates",
			text:     "Room 2025, building 9",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok := extractDateSpan(tt.text, ref)
			if tt.wantNone {
				if ok {
					t.Fatalf("expected no date, got %s to %s", span.Start, span.End)
				}
				return
			}
			if !ok {
				t.Fatal("expected a date, got none")
			}
			if span.Start != tt.wantStart || span.End != tt.wantEnd {
				t.Errorf("got %s to %s, want %s to %s", span.Start, span.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolveYearRollsForward(t *testing.T) {
	december := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		month     time.Month
		day       int
		reference time.Time
		want      int
	}{
		{"upcoming date keeps reference year", time.May, 9, ref, 2025},
		{"recent past keeps reference year", time.February, 1, ref, 2025},
		{"january seen from december rolls forward", time.January, 5, december, 2026},
		{"same month keeps year", time.December, 20, december, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveYear(tt.month, tt.day, tt.reference); got != tt.want {
				t.Errorf("resolveYear(%s %d) = %d, want %d", tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestExtractDateSpanCrossYearRange(t *testing.T) {
	december := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	span, ok := extractDateSpan("Holiday market Dec 30 - Jan 2", december)
	if !ok {
		t.Fatal("expected a date")
	}
	if want := event.NewDate(2025, time.December, 30); span.Start != want {
		t.Errorf("start: got %s, want %s", span.Start, want)
	}
	if want := event.NewDate(2026, time.January, 2); span.End != want {
		t.Errorf("end: got %s, want %s", span.End, want)
	}
}

func TestPlausibleDate(t *testing.T) {
	tests := []struct {
		name string
		date event.Date
		want bool
	}{
		{"near future", event.NewDate(2025, time.June, 1), true},
		{"recent past", event.NewDate(2024, time.June, 1), true},
		{"decades past", event.NewDate(1999, time.June, 1), false},
		{"too far ahead", event.NewDate(2031, time.June, 1), false},
		{"window edge two years ahead", event.NewDate(2027, time.April, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plausibleDate(tt.date, ref); got != tt.want {
				t.Errorf("plausibleDate(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
