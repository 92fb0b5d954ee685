package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/pfrederiksen/campus-events/internal/calendar"
	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/query"
)

const defaultUpcomingDays = 7

// eventsResponse is the envelope for every route returning a list of events.
type eventsResponse struct {
	Events []*event.Event `json:"events"`
	Count  int            `json:"count"`
}

type categoriesResponse struct {
	Groups []query.CategoryGroup `json:"groups"`
}

func writeEvents(w http.ResponseWriter, events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}
	return writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) error {
	days := defaultUpcomingDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errInvalid(fmt.Sprintf("invalid days %q: expected an integer", raw))
		}
		days = n
	}

	events, err := s.svc.UpcomingEvents(r.Context(), days)
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) error {
	q, err := queryParam(r, "q")
	if err != nil {
		return err
	}
	events, err := s.svc.SearchEvents(r.Context(), q)
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) error {
	events, err := s.svc.EventsByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleByRange(w http.ResponseWriter, r *http.Request) error {
	start, err := queryParam(r, "start")
	if err != nil {
		return err
	}
	end, err := queryParam(r, "end")
	if err != nil {
		return err
	}
	events, err := s.svc.EventsByDateRange(r.Context(), start, end)
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleByTimeOfDay(w http.ResponseWriter, r *http.Request) error {
	date, err := queryParam(r, "date")
	if err != nil {
		return err
	}
	bucket, err := queryParam(r, "bucket")
	if err != nil {
		return err
	}
	events, err := s.svc.EventsByTimeOfDay(r.Context(), date, bucket)
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) error {
	var events []*event.Event
	var err error
	switch which := r.URL.Query().Get("which"); which {
	case "", "this":
		events, err = s.svc.EventsThisWeek(r.Context())
	case "next":
		events, err = s.svc.EventsNextWeek(r.Context())
	default:
		return errInvalid(fmt.Sprintf("invalid week %q: expected this or next", which))
	}
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleWeekend(w http.ResponseWriter, r *http.Request) error {
	events, err := s.svc.WeekendEvents(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) error {
	events, err := s.svc.EventsByCategory(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		return err
	}
	return writeEvents(w, events)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) error {
	q, err := queryParam(r, "q")
	if err != nil {
		return err
	}
	evt, err := s.svc.EventDetails(r.Context(), q)
	if err != nil {
		return err
	}
	if evt == nil {
		return errNotFound(fmt.Sprintf("no event matches %q", q))
	}
	return writeJSON(w, http.StatusOK, evt)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) error {
	groups, err := s.svc.EventCategories(r.Context())
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []query.CategoryGroup{}
	}
	return writeJSON(w, http.StatusOK, categoriesResponse{Groups: groups})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]
	evt, err := s.svc.EventDetails(r.Context(), id)
	if err != nil {
		return err
	}
	// The detail lookup tolerates fuzzy titles; this route is ID-addressed.
	if evt == nil || evt.ID != id {
		return errNotFound(fmt.Sprintf("no event with id %q", id))
	}

	ics, err := calendar.ICS(evt, time.Now())
	if err != nil {
		return errInvalid("event has no date to export")
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", evt.ID+".ics"))
	if _, err := w.Write([]byte(ics)); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
