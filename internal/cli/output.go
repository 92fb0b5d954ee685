package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/query"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// eventList is the JSON envelope for event listings.
type eventList struct {
	Events []*event.Event `json:"events"`
	Count  int            `json:"count"`
}

// WriteEvents writes an event listing in the specified format.
func WriteEvents(w io.Writer, events []*event.Event, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if events == nil {
			events = []*event.Event{}
		}
		return writeJSON(w, eventList{Events: events, Count: len(events)})
	case FormatText:
		return writeEventsText(w, events, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteCategories writes the grouped category listing.
func WriteCategories(w io.Writer, groups []query.CategoryGroup, format OutputFormat) error {
	switch format {
	case FormatJSON:
		if groups == nil {
			groups = []query.CategoryGroup{}
		}
		return writeJSON(w, map[string][]query.CategoryGroup{"groups": groups})
	case FormatText:
		if len(groups) == 0 {
			fmt.Fprintln(w, "No categories found.")
			return nil
		}
		for _, g := range groups {
			fmt.Fprintf(w, "%s:\n", g.Name)
			for _, label := range g.Labels {
				fmt.Fprintf(w, "  %s\n", label)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDetail writes one event with all its fields.
func WriteDetail(w io.Writer, evt *event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, evt)
	case FormatText:
		fmt.Fprintln(w, evt.Title)
		fmt.Fprintf(w, "  When: %s\n", when(evt))
		if evt.Location != "" {
			fmt.Fprintf(w, "  Where: %s\n", evt.Location)
		}
		if len(evt.Categories) > 0 {
			fmt.Fprintf(w, "  Categories: %s\n", strings.Join(evt.Categories, ", "))
		}
		if evt.Link != "" {
			fmt.Fprintf(w, "  Link: %s\n", evt.Link)
		}
		fmt.Fprintf(w, "  ID: %s\n", evt.ID)
		if evt.Description != "" {
			fmt.Fprintf(w, "\n%s\n", evt.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeEventsText(w io.Writer, events []*event.Event, verbose bool) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, evt := range events {
		fmt.Fprintf(w, "%s  %s\n", when(evt), evt.Title)
		if verbose {
			fmt.Fprintf(w, "    ID: %s\n", evt.ID)
			if evt.Location != "" {
				fmt.Fprintf(w, "    Location: %s\n", evt.Location)
			}
			if len(evt.Categories) > 0 {
				fmt.Fprintf(w, "    Categories: %s\n", strings.Join(evt.Categories, ", "))
			}
			if evt.Link != "" {
				fmt.Fprintf(w, "    Link: %s\n", evt.Link)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

// when renders the event's date and time span compactly. Events with no
// extracted date show a placeholder so columns stay aligned.
func when(evt *event.Event) string {
	if evt.StartDate == nil {
		return "(no date)        "
	}

	s := evt.StartDate.String()
	if evt.EndDate != nil && !evt.EndDate.Equal(*evt.StartDate) {
		s += " to " + evt.EndDate.String()
	}
	if evt.StartTime != nil {
		s += " " + evt.StartTime.String()
		if evt.EndTime != nil {
			s += "-" + evt.EndTime.String()
		}
	}
	return s
}
