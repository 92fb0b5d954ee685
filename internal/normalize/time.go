package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// timeRange is an extracted time-of-day signal. End is only meaningful when
// HasEnd is set. End before Start means the range explicitly crosses
// midnight; the caller decides what to do with the event's end date.
type timeRange struct {
	Start  event.ClockTime
	End    event.ClockTime
	HasEnd bool
}

var (
	// "2:00 PM – 4:00 PM", "2:00 – 4:00 PM", "8 PM to 10 PM", "18:00-20:00".
	timeRangeRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?m\.?)?` + rangeSep + `(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?m\.?)?\b`)
	// "8:00 PM", "8 pm", "8:00PM".
	timeSingleRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?\b`)
	// "18:30" with no meridiem marker.
	time24hRe = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// extractTimeRange scans text for time-of-day signals, preferring explicit
// ranges over single times. A pattern miss simply yields no time; bare digit
// ranges like "9 - 10" with neither minutes nor an am/pm marker are ignored
// since they are usually date ranges or plain numbers.
func extractTimeRange(text string) (timeRange, bool) {
	for _, m := range timeRangeRe.FindAllStringSubmatch(text, 5) {
		// Demand at least one disambiguating signal on either side.
		if m[2] == "" && m[3] == "" && m[5] == "" && m[6] == "" {
			continue
		}
		if tr, ok := resolveTimeRange(m[1], m[2], m[3], m[4], m[5], m[6]); ok {
			return tr, true
		}
	}

	for _, m := range timeSingleRe.FindAllStringSubmatch(text, 5) {
		if start, ok := clockFromParts(m[1], m[2], m[3]); ok {
			return timeRange{Start: start}, true
		}
	}

	for _, m := range time24hRe.FindAllStringSubmatch(text, 5) {
		if start, ok := clockFromParts(m[1], m[2], ""); ok {
			return timeRange{Start: start}, true
		}
	}

	return timeRange{}, false
}

// resolveTimeRange interprets a matched range, inferring a missing am/pm
// marker on one side from the other. "2:00 – 4:00 PM" reads as 14:00–16:00;
// "11:00 – 1:00 PM" flips the start to the morning so the range stays
// sensible.
func resolveTimeRange(startH, startM, startMer, endH, endM, endMer string) (timeRange, bool) {
	startMer, endMer = strings.ToLower(startMer), strings.ToLower(endMer)

	inferredStart, inferredEnd := startMer, endMer
	if inferredStart == "" {
		inferredStart = endMer
	}
	if inferredEnd == "" {
		inferredEnd = startMer
	}

	start, ok := clockFromParts(startH, startM, inferredStart)
	if !ok {
		return timeRange{}, false
	}
	end, ok := clockFromParts(endH, endM, inferredEnd)
	if !ok {
		return timeRange{}, false
	}

	// An inferred marker that leaves the range inverted was inferred wrong:
	// flip the inferred side by twelve hours when that restores order.
	if end.Before(start) {
		if startMer == "" {
			if flipped := flipMeridiem(start); !end.Before(flipped) {
				start = flipped
			}
		} else if endMer == "" {
			if flipped := flipMeridiem(end); !flipped.Before(start) {
				end = flipped
			}
		}
	}

	return timeRange{Start: start, End: end, HasEnd: true}, true
}

func flipMeridiem(c event.ClockTime) event.ClockTime {
	return event.NewClockTime((c.Hour+12)%24, c.Minute)
}

// clockFromParts builds a ClockTime from matched hour/minute strings and an
// optional meridiem marker ("a"/"p", empty for 24-hour).
func clockFromParts(hourStr, minuteStr, meridiem string) (event.ClockTime, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return event.ClockTime{}, false
	}
	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil {
			return event.ClockTime{}, false
		}
	}

	switch strings.ToLower(meridiem) {
	case "a":
		if hour < 1 || hour > 12 {
			return event.ClockTime{}, false
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return event.ClockTime{}, false
		}
		if hour != 12 {
			hour += 12
		}
	}

	c := event.NewClockTime(hour, minute)
	if !c.Valid() {
		return event.ClockTime{}, false
	}
	return c, true
}
