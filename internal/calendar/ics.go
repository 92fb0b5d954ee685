// Package calendar exports events as iCalendar files.
package calendar

import (
	"errors"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/campus-events/internal/event"
)

const productID = "-//Campus Events//campus-events//EN"

// defaultDuration is assumed for timed events with no extracted end time.
const defaultDuration = time.Hour

// ErrNoDate indicates the event has no extracted date, so no calendar entry
// can be produced for it.
var ErrNoDate = errors.New("event has no date")

// ICS renders the event as a single-entry iCalendar file. Events with an
// extracted start time become timed entries; events with only a date become
// all-day entries spanning their date interval. The stamp is the generation
// time recorded on the entry.
func ICS(evt *event.Event, stamp time.Time) (string, error) {
	if evt.StartDate == nil {
		return "", ErrNoDate
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	entry := cal.AddEvent(evt.ID)
	entry.SetDtStampTime(stamp.UTC())
	entry.SetSummary(evt.Title)
	entry.SetStatus(ics.ObjectStatusConfirmed)

	start, end := span(evt)
	if evt.StartTime != nil {
		entry.SetStartAt(start)
		entry.SetEndAt(end)
	} else {
		entry.SetAllDayStartAt(start)
		// DTEND is exclusive for all-day entries.
		entry.SetAllDayEndAt(end.AddDate(0, 0, 1))
	}

	if evt.Description != "" {
		entry.SetDescription(evt.Description)
	}
	if evt.Location != "" {
		entry.SetLocation(evt.Location)
	}
	if evt.Link != "" {
		entry.SetURL(evt.Link)
	}
	if len(evt.Categories) > 0 {
		entry.SetProperty(ics.ComponentPropertyCategories, strings.Join(evt.Categories, ","))
	}

	return cal.Serialize(), nil
}

// span resolves the event's concrete start and end instants. For all-day
// events the instants are the date interval's midnights.
func span(evt *event.Event) (time.Time, time.Time) {
	endDate := *evt.StartDate
	if evt.EndDate != nil {
		endDate = *evt.EndDate
	}

	if evt.StartTime == nil {
		return evt.StartDate.Time(), endDate.Time()
	}

	start := at(*evt.StartDate, *evt.StartTime)
	if evt.EndTime != nil {
		return start, at(endDate, *evt.EndTime)
	}
	return start, start.Add(defaultDuration)
}

func at(d event.Date, t event.ClockTime) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}
