package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// dateSpan is an extracted calendar date range. End equals Start when no
// range was detected.
type dateSpan struct {
	Start event.Date
	End   event.Date
}

// datePattern is one prioritized family of date layouts. Each family is an
// independent, pure matcher; extraction composes them via "first plausible
// match wins".
type datePattern struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string, reference time.Time) (dateSpan, bool)
}

const (
	monthNames   = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`
	weekdayNames = `(?:Mon|Tue(?:s)?|Wed(?:nes)?|Thu(?:rs?)?|Fri|Sat(?:ur)?|Sun)(?:day)?`
	rangeSep     = `\s*(?:to|through|until|[–—-])\s*`
)

// datePatterns is tried in order; earlier families are more specific and
// less likely to produce spurious matches.
var datePatterns = []datePattern{
	{
		name:    "iso",
		re:      regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:` + rangeSep + `(\d{4})-(\d{2})-(\d{2}))?\b`),
		resolve: resolveISO,
	},
	{
		name: "month-name",
		re: regexp.MustCompile(`(?i)\b(?:` + weekdayNames + `,?\s+)?(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?` +
			`(?:` + rangeSep + `(?:(` + monthNames + `)\.?\s+)?(\d{1,2})(?:st|nd|rd|th)?)?` +
			`(?:,?\s+(\d{4}))?\b`),
		resolve: resolveMonthName,
	},
	{
		name:    "numeric",
		re:      regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2}(?:\d{2})?)\b`),
		resolve: resolveNumeric,
	},
}

// extractDateSpan scans text with the prioritized pattern families and
// returns the first plausible date span. Inverted ranges are swapped rather
// than rejected.
func extractDateSpan(text string, reference time.Time) (dateSpan, bool) {
	for _, pattern := range datePatterns {
		for _, m := range pattern.re.FindAllStringSubmatch(text, 5) {
			span, ok := pattern.resolve(m, reference)
			if !ok {
				continue
			}
			if !plausibleDate(span.Start, reference) {
				continue
			}
			if span.End.Before(span.Start) {
				span.Start, span.End = span.End, span.Start
			}
			return span, true
		}
	}
	return dateSpan{}, false
}

// plausibleDate rejects spurious pattern matches: a date more than a year
// behind or two years ahead of the reference instant is assumed to be noise
// (a phone number, a room code) rather than an event date.
func plausibleDate(d event.Date, reference time.Time) bool {
	t := d.Time()
	return !t.Before(reference.AddDate(-1, 0, 0)) && !t.After(reference.AddDate(2, 0, 0))
}

func resolveISO(m []string, _ time.Time) (dateSpan, bool) {
	start, ok := dateFromParts(m[1], m[2], m[3])
	if !ok {
		return dateSpan{}, false
	}
	span := dateSpan{Start: start, End: start}
	if m[4] != "" {
		if end, ok := dateFromParts(m[4], m[5], m[6]); ok {
			span.End = end
		}
	}
	return span, true
}

func resolveMonthName(m []string, reference time.Time) (dateSpan, bool) {
	month, ok := monthFromName(m[1])
	if !ok {
		return dateSpan{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return dateSpan{}, false
	}

	year := 0
	if m[5] != "" {
		year, _ = strconv.Atoi(m[5])
	} else {
		year = resolveYear(month, day, reference)
	}

	start := event.NewDate(year, month, day)
	if !start.Valid() {
		return dateSpan{}, false
	}
	span := dateSpan{Start: start, End: start}

	if m[4] != "" {
		endMonth := month
		if m[3] != "" {
			if em, ok := monthFromName(m[3]); ok {
				endMonth = em
			}
		}
		endDay, _ := strconv.Atoi(m[4])
		endYear := year
		if endMonth < month {
			// "Dec 30 – Jan 2" wraps into the next year.
			endYear++
		}
		if end := event.NewDate(endYear, endMonth, endDay); end.Valid() {
			span.End = end
		}
	}

	return span, true
}

func resolveNumeric(m []string, _ time.Time) (dateSpan, bool) {
	// US month/day/year ordering, matching the source feed's conventions.
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	start, ok := dateFromParts(strconv.Itoa(year), m[1], m[2])
	if !ok {
		return dateSpan{}, false
	}
	return dateSpan{Start: start, End: start}, true
}

// resolveYear picks the year for a date with no explicit year: the reference
// year, rolled forward when the candidate lands more than six months behind
// the reference (a January date seen in a December feed means next January).
func resolveYear(month time.Month, day int, reference time.Time) int {
	year := reference.Year()
	candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(reference.AddDate(0, -6, 0)) {
		year++
	}
	return year
}

func dateFromParts(yearStr, monthStr, dayStr string) (event.Date, bool) {
	year, err1 := strconv.Atoi(yearStr)
	month, err2 := strconv.Atoi(monthStr)
	day, err3 := strconv.Atoi(dayStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return event.Date{}, false
	}
	d := event.NewDate(year, time.Month(month), day)
	if month < 1 || month > 12 || !d.Valid() {
		return event.Date{}, false
	}
	return d, true
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	month, ok := monthsByPrefix[name[:3]]
	return month, ok
}
