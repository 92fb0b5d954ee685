package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/campus-events/internal/event"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func staticEvents(titles ...string) []*event.Event {
	events := make([]*event.Event, 0, len(titles))
	for _, title := range titles {
		events = append(events, &event.Event{
			ID:    event.GenerateID("", title, ""),
			Title: title,
		})
	}
	return events
}

func TestSnapshotReusedWhileFresh(t *testing.T) {
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		atomic.AddInt32(&calls, 1)
		return staticEvents("One"), nil
	}, WithClock(clock.Now))

	first, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	clock.Advance(DefaultMaxAge - time.Minute)
	second, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	if first != second {
		t.Error("fresh snapshot should be reused, not rebuilt")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want 1", got)
	}
}

func TestSnapshotRefreshedWhenStale(t *testing.T) {
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		atomic.AddInt32(&calls, 1)
		return staticEvents("One"), nil
	}, WithClock(clock.Now))

	if _, err := c.Snapshot(context.Background()); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	clock.Advance(DefaultMaxAge)
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("stale snapshot: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch calls: got %d, want 2", got)
	}
	if !snap.FetchedAt.Equal(clock.Now()) {
		t.Errorf("fetched_at not advanced: got %s, want %s", snap.FetchedAt, clock.Now())
	}
}

func TestSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	clock := newFakeClock()
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return staticEvents("One", "Two"), nil
	}, WithClock(clock.Now))

	const workers = 16
	var wg sync.WaitGroup
	results := make([]*event.Snapshot, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Snapshot(context.Background())
		}(i)
	}

	// Let the workers pile up on the in-flight refresh before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want exactly 1", got)
	}
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("worker %d received a different snapshot", i)
		}
	}
}

func TestFailureServesStaleSnapshot(t *testing.T) {
	var fail atomic.Bool
	clock := newFakeClock()
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return staticEvents("One", "Two"), nil
	}, WithClock(clock.Now))

	first, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	fail.Store(true)
	clock.Advance(DefaultMaxAge + time.Minute)

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("refresh failure with prior snapshot should be soft, got %v", err)
	}
	if snap != first {
		t.Error("expected the stale snapshot to be served")
	}
	if len(snap.Events) != 2 {
		t.Errorf("stale snapshot events: got %d, want 2", len(snap.Events))
	}
}

func TestFailureWithoutSnapshotIsHard(t *testing.T) {
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		return nil, errors.New("boom")
	})

	_, err := c.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected a hard error with no prior snapshot")
	}
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestFetchedAtNotAdvancedOnFailure(t *testing.T) {
	var fail atomic.Bool
	var calls int32
	clock := newFakeClock()
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		atomic.AddInt32(&calls, 1)
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return staticEvents("One"), nil
	}, WithClock(clock.Now))

	if _, err := c.Snapshot(context.Background()); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	fail.Store(true)
	clock.Advance(DefaultMaxAge + time.Minute)

	// Two stale reads in a row: since the failed refresh must not advance
	// fetched_at, both should attempt a fetch.
	if _, err := c.Snapshot(context.Background()); err != nil {
		t.Fatalf("soft failure: %v", err)
	}
	if _, err := c.Snapshot(context.Background()); err != nil {
		t.Fatalf("soft failure: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("fetch calls: got %d, want 3 (failures keep the snapshot stale)", got)
	}
}

func TestRefreshRespectsTimeout(t *testing.T) {
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithRefreshTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := c.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("refresh did not respect timeout, took %s", elapsed)
	}
}

func TestCurrent(t *testing.T) {
	c := New(func(ctx context.Context) ([]*event.Event, error) {
		return staticEvents("One"), nil
	})

	if _, ok := c.Current(); ok {
		t.Error("Current before any fetch should report false")
	}

	if _, err := c.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	snap, ok := c.Current()
	if !ok || snap == nil {
		t.Fatal("Current after a fetch should report the snapshot")
	}
}
