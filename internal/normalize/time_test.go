package normalize

import (
	"testing"

	"github.com/pfrederiksen/campus-events/internal/event"
)

func TestExtractTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantStart event.ClockTime
		wantEnd   event.ClockTime
		wantRange bool
		wantNone  bool
	}{
		{
			name:      "single time with meridiem",
			text:      "Join us Fri, May 9 at 8:00 PM @ Student Centre",
			wantStart: event.NewClockTime(20, 0),
		},
		{
			name:      "single time without minutes",
			text:      "Doors at 8 pm sharp",
			wantStart: event.NewClockTime(20, 0),
		},
		{
			name:      "noon",
			text:      "Lunch talk at 12:00 PM",
			wantStart: event.NewClockTime(12, 0),
		},
		{
			name:      "midnight spelled 12 am",
			text:      "Ends at 12:00 AM",
			wantStart: event.NewClockTime(0, 0),
		},
		{
			name:      "explicit range",
			text:      "Workshop 2:00 PM – 4:00 PM in the lab",
			wantStart: event.NewClockTime(14, 0),
			wantEnd:   event.NewClockTime(16, 0),
			wantRange: true,
		},
		{
			name:      "range with trailing meridiem only",
			text:      "Open house 2:00 – 4:00 PM",
			wantStart: event.NewClockTime(14, 0),
			wantEnd:   event.NewClockTime(16, 0),
			wantRange: true,
		},
		{
			name:      "trailing meridiem crossing noon",
			text:      "Brunch 11:00 - 1:00 PM",
			wantStart: event.NewClockTime(11, 0),
			wantEnd:   event.NewClockTime(13, 0),
			wantRange: true,
		},
		{
			name:      "leading meridiem inferred for end",
			text:      "Evening session 8:00 PM - 10:00",
			wantStart: event.NewClockTime(20, 0),
			wantEnd:   event.NewClockTime(22, 0),
			wantRange: true,
		},
		{
			name:      "explicit range crossing midnight preserved",
			text:      "Late skate 10 PM to 1 AM",
			wantStart: event.NewClockTime(22, 0),
			wantEnd:   event.NewClockTime(1, 0),
			wantRange: true,
		},
		{
			name:      "twenty four hour time",
			text:      "Screening at 18:30 tonight",
			wantStart: event.NewClockTime(18, 30),
		},
		{
			name:      "twenty four hour range",
			text:      "Rehearsal 18:00-20:30",
			wantStart: event.NewClockTime(18, 0),
			wantEnd:   event.NewClockTime(20, 30),
			wantRange: true,
		},
		{
			name:     "bare digit range is not a time",
			text:     "Exhibit runs May 9 - 11",
			wantNone: true,
		},
		{
			name:     "no time signal",
			text:     "All day celebration on the quad",
			wantNone: true,
		},
		{
			name:     "iso date is not a time",
			text:     "Happening 2025-05-09",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ok := extractTimeRange(tt.text)
			if tt.wantNone {
				if ok {
					t.Fatalf("expected no time, got %+v", tr)
				}
				return
			}
			if !ok {
				t.Fatal("expected a time, got none")
			}
			if tr.Start != tt.wantStart {
				t.Errorf("start: got %s, want %s", tr.Start, tt.wantStart)
			}
			if tr.HasEnd != tt.wantRange {
				t.Fatalf("HasEnd: got %v, want %v", tr.HasEnd, tt.wantRange)
			}
			if tt.wantRange && tr.End != tt.wantEnd {
				t.Errorf("end: got %s, want %s", tr.End, tt.wantEnd)
			}
		})
	}
}

func TestClockFromParts(t *testing.T) {
	tests := []struct {
		name     string
		hour     string
		minute   string
		meridiem string
		want     event.ClockTime
		wantOK   bool
	}{
		{"simple pm", "8", "00", "p", event.NewClockTime(20, 0), true},
		{"simple am", "8", "30", "a", event.NewClockTime(8, 30), true},
		{"noon", "12", "00", "p", event.NewClockTime(12, 0), true},
		{"midnight", "12", "00", "a", event.NewClockTime(0, 0), true},
		{"no minutes", "9", "", "a", event.NewClockTime(9, 0), true},
		{"24 hour no meridiem", "18", "30", "", event.NewClockTime(18, 30), true},
		{"zero is invalid with meridiem", "0", "30", "p", event.ClockTime{}, false},
		{"13 invalid with meridiem", "13", "00", "p", event.ClockTime{}, false},
		{"24 invalid", "24", "00", "", event.ClockTime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := clockFromParts(tt.hour, tt.minute, tt.meridiem)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
