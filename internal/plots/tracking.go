package plots

import (
	"context"
	"errors"
	"sync"
	"time"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

var (
	ErrLocationUnsupported = errors.New("geolocation is not available on this device")
	ErrLocationTimeout     = errors.New("timed out waiting for a location fix")
)

// Locator provides device positions.
type Locator interface {
	CurrentPosition(ctx context.Context) (geospatial.Point, error)
	Watch(onFix func(geospatial.Point)) (*Tracker, error)
}

// Tracker is the handle of a continuous watch. Close releases it; further calls
// are no-ops.
type Tracker struct {
	once    sync.Once
	release func()
}

func (t *Tracker) Close() {
	t.once.Do(t.release)
}

// DeviceFeed is a Locator backed by fixes the session's client device pushes.
// present reports whether a device is connected at all.
type DeviceFeed struct {
	present func() bool
	maxAge  time.Duration
	now     func() time.Time

	mu       sync.Mutex
	last     geospatial.Point
	lastAt   time.Time
	hasFix   bool
	waiters  map[uint64]chan geospatial.Point
	watchers map[uint64]func(geospatial.Point)
	nextID   uint64
}

// NewDeviceFeed creates a feed; fixes older than maxAge are not reused.
func NewDeviceFeed(present func() bool, maxAge time.Duration) *DeviceFeed {
	return &DeviceFeed{
		present:  present,
		maxAge:   maxAge,
		now:      time.Now,
		waiters:  make(map[uint64]chan geospatial.Point),
		watchers: make(map[uint64]func(geospatial.Point)),
	}
}

// Push records a fix and hands it to every waiter and watcher.
func (f *DeviceFeed) Push(p geospatial.Point) {
	f.mu.Lock()
	f.last = p
	f.lastAt = f.now()
	f.hasFix = true

	waiters := f.waiters
	f.waiters = make(map[uint64]chan geospatial.Point)
	watchers := make([]func(geospatial.Point), 0, len(f.watchers))
	for _, w := range f.watchers {
		watchers = append(watchers, w)
	}
	f.mu.Unlock()

	for _, ch := range waiters {
		ch <- p
	}
	for _, w := range watchers {
		w(p)
	}
}

// Latest returns the last fix if it is still fresh.
func (f *DeviceFeed) Latest() (geospatial.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freshLocked()
}

func (f *DeviceFeed) freshLocked() (geospatial.Point, bool) {
	if !f.hasFix || f.now().Sub(f.lastAt) > f.maxAge {
		return geospatial.Point{}, false
	}
	return f.last, true
}

// CurrentPosition returns a fresh fix or waits for the next one until ctx ends.
func (f *DeviceFeed) CurrentPosition(ctx context.Context) (geospatial.Point, error) {
	if !f.present() {
		return geospatial.Point{}, ErrLocationUnsupported
	}

	f.mu.Lock()
	if p, ok := f.freshLocked(); ok {
		f.mu.Unlock()
		return p, nil
	}
	id := f.nextID
	f.nextID++
	ch := make(chan geospatial.Point, 1)
	f.waiters[id] = ch
	f.mu.Unlock()

	select {
	case p := <-ch:
		return p, nil
	case <-ctx.Done():
		f.mu.Lock()
		delete(f.waiters, id)
		f.mu.Unlock()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return geospatial.Point{}, ErrLocationTimeout
		}
		return geospatial.Point{}, ctx.Err()
	}
}

// Watch registers onFix for every future fix until the tracker is closed.
// onFix runs on the pushing goroutine without the feed lock held.
func (f *DeviceFeed) Watch(onFix func(geospatial.Point)) (*Tracker, error) {
	if !f.present() {
		return nil, ErrLocationUnsupported
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.watchers[id] = onFix
	f.mu.Unlock()

	return &Tracker{release: func() {
		f.mu.Lock()
		delete(f.watchers, id)
		f.mu.Unlock()
	}}, nil
}

// Watchers returns the number of active watches.
func (f *DeviceFeed) Watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}
