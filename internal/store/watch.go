package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of events one atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Op is the kind of change seen on a record.
type Op int

const (
	Changed Op = iota
	Removed
)

func (o Op) String() string {
	if o == Removed {
		return "removed"
	}
	return "changed"
}

// Event reports that a record changed on disk.
type Event struct {
	ID string
	Op Op
}

// Watch reports record changes until ctx is done. Events for the same record
// that arrive within a short window are delivered once, with the last op.
// The returned channel is closed when watching stops.
func (d *Dir) Watch(ctx context.Context) (<-chan Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(d.path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", d.path, err)
	}

	events := make(chan Event, 16)
	deb := newDebouncer(watchDebounce)
	go func() {
		defer close(events)
		defer deb.stopAndWait()
		defer watcher.Close()
		d.watchLoop(ctx, watcher, deb, events)
	}()
	return events, nil
}

func (d *Dir) watchLoop(ctx context.Context, w *fsnotify.Watcher, deb *debouncer, out chan<- Event) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			id := filepath.Base(ev.Name)
			if !ValidID(id) {
				continue
			}
			op := Changed
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				op = Removed
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
			default:
				continue
			}
			d.logger.Debug("record event", "id", id, "op", op)
			deb.add(Event{ID: id, Op: op}, func(e Event) {
				select {
				case out <- e:
				case <-ctx.Done():
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			d.logger.Error("fsnotify error", "error", err)
		}
	}
}

// debouncer delays delivery of an event until its record has been quiet for
// the debounce window.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (b *debouncer) add(e Event, deliver func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if t, ok := b.timers[e.ID]; ok && t.Stop() {
		b.wg.Done()
	}
	b.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(b.delay, func() {
		defer b.wg.Done()
		b.mu.Lock()
		// A later add may have replaced this timer after it fired.
		if b.timers[e.ID] == t {
			delete(b.timers, e.ID)
		}
		stopped := b.stopped
		b.mu.Unlock()
		if !stopped {
			deliver(e)
		}
	})
	b.timers[e.ID] = t
}

// stopAndWait drops pending events and waits for deliveries in flight.
func (b *debouncer) stopAndWait() {
	b.mu.Lock()
	b.stopped = true
	for id, t := range b.timers {
		if t.Stop() {
			b.wg.Done()
		}
		delete(b.timers, id)
	}
	b.mu.Unlock()
	b.wg.Wait()
}
