package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Persistence.Watch when the data file is replaced or
// removed by anyone, including this process.
type Event struct {
	Path    string
	Removed bool
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher fails.
//
// The directory is watched rather than the file because every save renames a
// new file over the old one.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 8)
	target := filepath.Clean(s.path)

	var (
		mu     sync.Mutex
		closed bool
	)
	go func() {
		defer func() {
			mu.Lock()
			closed = true
			close(events)
			mu.Unlock()
		}()
		defer func() {
			if err := watcher.Close(); err != nil {
				s.log.Warn().Err(err).Msg("watcher close")
			}
		}()

		send := func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// The consumer reloads the whole file on any event, so a
				// dropped event is covered by the one still queued.
			}
		}
		throttle := newEventThrottle(100*time.Millisecond, send)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn().Err(err).Msg("watch error")
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				removed := evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0
				if removed {
					if _, err := os.Stat(target); err == nil {
						removed = false
					}
				}
				throttle.Enqueue(Event{Path: target, Removed: removed})
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces a burst of filesystem activity into the last event
// of the burst.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending *Event
	delay   time.Duration
	send    func(Event)
}

func newEventThrottle(delay time.Duration, send func(Event)) *eventThrottle {
	return &eventThrottle{delay: delay, send: send}
}

func (t *eventThrottle) Enqueue(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = &ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *eventThrottle) flush() {
	t.mu.Lock()
	ev := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	if ev != nil {
		t.send(*ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
