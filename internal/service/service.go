// Package service is the string-typed boundary over the query engine.
//
// Callers on the outside (HTTP handlers, CLI commands) deal in strings:
// ISO dates, bucket names, free-text queries. This package parses those,
// borrows the current snapshot from its source, and runs the matching
// query. Malformed input surfaces as a *ParseError naming the offending
// field; a feed that has never been fetched surfaces as ErrNoData.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/campus-events/internal/cache"
	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/feed"
	"github.com/pfrederiksen/campus-events/internal/match"
	"github.com/pfrederiksen/campus-events/internal/normalize"
	"github.com/pfrederiksen/campus-events/internal/query"
)

// ErrNoData indicates no snapshot exists to answer from. It is distinct
// from an empty result set, which is a normal answer.
var ErrNoData = cache.ErrNoData

// ParseError indicates a caller-supplied value could not be interpreted.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Source yields the current event snapshot.
type Source interface {
	Snapshot(ctx context.Context) (*event.Snapshot, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithScorer overrides the similarity scorer.
func WithScorer(scorer match.Scorer) Option {
	return func(s *Service) { s.scorer = scorer }
}

// Service answers event questions posed with string-typed arguments.
type Service struct {
	source Source
	scorer match.Scorer
	now    func() time.Time
}

// New creates a service over the given snapshot source.
func New(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		scorer: match.Levenshtein{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFeedFetch composes the fetch, parse, and normalize stages into the
// fetch function a cache refreshes with. The fetch time is the reference
// for resolving year-less dates.
func NewFeedFetch(client *feed.Client, url string) cache.FetchFunc {
	return func(ctx context.Context) ([]*event.Event, error) {
		raw, err := client.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		entries, err := feed.Parse(raw)
		if err != nil {
			return nil, err
		}
		return normalize.Normalize(entries, time.Now()), nil
	}
}

// UpcomingEvents returns events from today through today plus days.
func (s *Service) UpcomingEvents(ctx context.Context, days int) ([]*event.Event, error) {
	if days < 0 {
		return nil, &ParseError{Field: "days", Value: fmt.Sprint(days), Reason: "must not be negative"}
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Upcoming(snap, s.today(), days), nil
}

// SearchEvents returns events matching the keyword query.
func (s *Service) SearchEvents(ctx context.Context, q string) ([]*event.Event, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Search(snap, q), nil
}

// EventsByDate returns events occurring on the given ISO date.
func (s *Service) EventsByDate(ctx context.Context, date string) ([]*event.Event, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByDate(snap, d), nil
}

// EventsByDateRange returns events overlapping the inclusive ISO date range.
func (s *Service) EventsByDateRange(ctx context.Context, start, end string) ([]*event.Event, error) {
	from, err := parseDate("start", start)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("end", end)
	if err != nil {
		return nil, err
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByRange(snap, from, to)
}

// EventsByTimeOfDay returns events on the given ISO date starting inside
// the named bucket (morning, afternoon, or evening).
func (s *Service) EventsByTimeOfDay(ctx context.Context, date, bucket string) ([]*event.Event, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}
	b, ok := query.BucketByName(bucket)
	if !ok {
		return nil, &ParseError{Field: "bucket", Value: bucket, Reason: "must be morning, afternoon, or evening"}
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByTimeOfDay(snap, d, b), nil
}

// EventCategories returns the distinct category labels in the snapshot,
// grouped for display.
func (s *Service) EventCategories(ctx context.Context) ([]query.CategoryGroup, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Categories(snap), nil
}

// EventsByCategory returns events whose categories match the given label,
// tolerating case differences, partial labels, and small misspellings.
func (s *Service) EventsByCategory(ctx context.Context, category string) ([]*event.Event, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByCategory(snap, category, s.scorer), nil
}

// EventDetails finds the single best event for an ID or title query. A nil
// event with a nil error means nothing matched.
func (s *Service) EventDetails(ctx context.Context, q string) (*event.Event, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Detail(snap, q, s.scorer), nil
}

// EventsThisWeek returns events in the Monday to Sunday week containing
// today.
func (s *Service) EventsThisWeek(ctx context.Context) ([]*event.Event, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.ThisWeek(snap, s.today()), nil
}

// EventsNextWeek returns events in the week after the one containing today.
func (s *Service) EventsNextWeek(ctx context.Context) ([]*event.Event, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.NextWeek(snap, s.today()), nil
}

// WeekendEvents returns events on the Saturday and Sunday at or after the
// given ISO date. An empty date means today.
func (s *Service) WeekendEvents(ctx context.Context, date string) ([]*event.Event, error) {
	reference := s.today()
	if date != "" {
		d, err := parseDate("date", date)
		if err != nil {
			return nil, err
		}
		reference = d
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Weekend(snap, reference), nil
}

func (s *Service) today() event.Date {
	return event.DateOf(s.now())
}

func parseDate(field, value string) (event.Date, error) {
	d, err := event.ParseISODate(value)
	if err != nil {
		return event.Date{}, &ParseError{Field: field, Value: value, Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}
