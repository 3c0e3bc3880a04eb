package store

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const snapshotKeyLayout = "20060102T150405.000000000Z"

// ErrSnapshotNotFound is returned when a snapshot key does not exist.
var ErrSnapshotNotFound = errors.New("store: snapshot not found")

// SnapshotDir is where snapshots of the data file at path are kept.
func SnapshotDir(path string) string {
	return path + ".snapshots"
}

// Snapshots keeps earlier versions of the data file in a diskv store, one
// blob per save, keyed by the UTC time of the save.
type Snapshots struct {
	d     *diskv.Diskv
	limit int
}

// NewSnapshots keeps at most limit snapshots under dir.
func NewSnapshots(dir string, limit int) *Snapshots {
	return &Snapshots{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(filepath.Dir(dir), ".spool-snapshot-tmp"),
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		limit: limit,
	}
}

// Keep stores data taken at the given time and prunes the oldest snapshots
// beyond the limit. Data identical to the newest snapshot is not stored again.
func (s *Snapshots) Keep(data []byte, at time.Time) error {
	keys := s.Keys()
	if n := len(keys); n > 0 {
		if latest, err := s.d.Read(keys[n-1]); err == nil && bytes.Equal(latest, data) {
			return nil
		}
	}
	key := at.UTC().Format(snapshotKeyLayout)
	for s.d.Has(key) {
		at = at.Add(time.Nanosecond)
		key = at.UTC().Format(snapshotKeyLayout)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	return s.prune()
}

// Keys lists snapshot keys oldest first.
func (s *Snapshots) Keys() []string {
	cancel := make(chan struct{})
	defer close(cancel)
	var keys []string
	for key := range s.d.Keys(cancel) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Read returns the bytes of one snapshot.
func (s *Snapshots) Read(key string) ([]byte, error) {
	if !s.d.Has(key) {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, key)
	}
	return s.d.Read(key)
}

// Time parses the save time out of a snapshot key.
func (s *Snapshots) Time(key string) (time.Time, bool) {
	t, err := time.Parse(snapshotKeyLayout, key)
	return t, err == nil
}

func (s *Snapshots) prune() error {
	if s.limit <= 0 {
		return nil
	}
	keys := s.Keys()
	for len(keys) > s.limit {
		if err := s.d.Erase(keys[0]); err != nil {
			return fmt.Errorf("store: prune snapshot: %w", err)
		}
		keys = keys[1:]
	}
	return nil
}
