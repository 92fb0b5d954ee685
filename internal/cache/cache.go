// Package cache owns the current feed snapshot and its refresh lifecycle.
//
// The cache is the single owner of the snapshot: queries borrow a reference
// for the duration of one call and never mutate it. Refreshes are serialized
// with single-flight so concurrent stale callers share one underlying fetch,
// and a failed refresh keeps serving the last good snapshot rather than
// failing callers that could still be answered.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/campus-events/internal/event"
)

const (
	// DefaultMaxAge is the staleness window: a snapshot older than this
	// triggers a refresh on the next read.
	DefaultMaxAge = 15 * time.Minute

	// DefaultRefreshTimeout bounds a single refresh fetch. A timeout is
	// treated exactly like any other fetch failure.
	DefaultRefreshTimeout = 45 * time.Second
)

// ErrNoData indicates the feed has never been fetched successfully, so there
// is no snapshot to serve, stale or otherwise.
var ErrNoData = errors.New("event data unavailable")

var (
	refreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_events_feed_refreshes_total",
		Help: "Number of feed refresh attempts.",
	})
	refreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_events_feed_refresh_failures_total",
		Help: "Number of feed refresh attempts that failed.",
	})
	staleServes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_events_feed_stale_serves_total",
		Help: "Number of reads served from a stale snapshot after a refresh failure.",
	})
)

// FetchFunc produces a fresh normalized event set. Implementations fetch the
// feed, parse the container, and normalize the entries.
type FetchFunc func(ctx context.Context) ([]*event.Event, error)

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge sets the staleness window.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithRefreshTimeout bounds each refresh fetch.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache holds the last successfully fetched snapshot and refreshes it when
// stale.
type Cache struct {
	fetch   FetchFunc
	maxAge  time.Duration
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	snap *event.Snapshot
}

// New creates a cache around the given fetch function.
func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:   fetch,
		maxAge:  DefaultMaxAge,
		timeout: DefaultRefreshTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current snapshot, refreshing it first when it is
// missing or older than the staleness window. Concurrent stale callers share
// a single refresh and receive the same snapshot (or the same failure).
//
// A failed refresh is soft when a prior snapshot exists: the stale snapshot
// is served and the failure is recorded as a warning. With no prior snapshot
// the failure is hard and wraps ErrNoData.
func (c *Cache) Snapshot(ctx context.Context) (*event.Snapshot, error) {
	if snap, ok := c.fresh(); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// A caller that queued behind a completed refresh finds the fresh
		// snapshot here instead of fetching again.
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*event.Snapshot), nil
}

// Current returns the snapshot as-is without triggering a refresh. The
// boolean is false when nothing has been fetched yet.
func (c *Cache) Current() (*event.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.snap != nil
}

// fresh returns the snapshot when it exists and is within the staleness
// window.
func (c *Cache) fresh() (*event.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil, false
	}
	if c.now().Sub(c.snap.FetchedAt) >= c.maxAge {
		return nil, false
	}
	return c.snap, true
}

// refresh runs one fetch cycle and swaps in the resulting snapshot. The
// fetch timestamp advances only on success.
func (c *Cache) refresh(ctx context.Context) (*event.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	refreshes.Inc()
	events, err := c.fetch(ctx)
	if err != nil {
		refreshFailures.Inc()

		c.mu.RLock()
		stale := c.snap
		c.mu.RUnlock()
		if stale != nil {
			staleServes.Inc()
			slog.Warn("feed refresh failed, serving stale snapshot",
				"error", err,
				"snapshot_age", c.now().Sub(stale.FetchedAt).String(),
				"events", len(stale.Events))
			return stale, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrNoData, err)
	}

	snap := event.NewSnapshot(events, c.now())

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	slog.Info("feed snapshot refreshed", "events", len(snap.Events))
	return snap, nil
}
