package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatchEmitsOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filament_data.json")
	s := Open(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before saving.
	time.Sleep(50 * time.Millisecond)

	if err := s.Save(context.Background(), NewDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Path != filepath.Clean(path) {
			t.Fatalf("unexpected event path %q", evt.Path)
		}
		if evt.Removed {
			t.Fatal("save reported as removal")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filament_data.json")
	s := Open(path)
	if err := s.Save(context.Background(), NewDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Removed {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for removal event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "filament_data.json"))
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	var (
		mu  sync.Mutex
		got []Event
	)
	done := make(chan struct{}, 1)
	throttle := newEventThrottle(20*time.Millisecond, func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		done <- struct{}{}
	})
	defer throttle.Stop()

	throttle.Enqueue(Event{Path: "a"})
	throttle.Enqueue(Event{Path: "b"})
	throttle.Enqueue(Event{Path: "c", Removed: true})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("throttle never flushed")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Path != "c" || !got[0].Removed {
		t.Fatalf("expected only the last event, got %#v", got)
	}
}
