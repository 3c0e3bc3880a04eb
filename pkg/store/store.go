// Package store keeps the filament inventory in a single JSON file.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ErrCorrupt marks a data file that exists but cannot be read as an
// inventory. Load still hands back an empty document alongside it.
var ErrCorrupt = errors.New("store: corrupt data file")

// Persistence defines the persistence contract for the inventory document.
type Persistence interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Watch(ctx context.Context) (<-chan Event, error)
	Path() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migration repairs and background work.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the time source used for synthesized ids and dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSnapshots keeps the previous file contents before every save.
func WithSnapshots(snap *Snapshots) Option {
	return func(s *Store) { s.snapshots = snap }
}

// Store is the file-backed Persistence.
type Store struct {
	path      string
	log       zerolog.Logger
	now       func() time.Time
	snapshots *Snapshots

	// rename is os.Rename outside of tests.
	rename func(oldpath, newpath string) error
}

var _ Persistence = (*Store)(nil)

// Open returns a Store for the data file at path. Nothing is read until Load.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		log:    zerolog.Nop(),
		now:    time.Now,
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a Store from the provided config, or from LoadConfig when cfg is
// nil.
func Load(cfg Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	path := cfg.DataPath()
	if path == "" {
		return nil, errors.New("store: data path unknown")
	}
	if n := cfg.SnapshotLimit(); n > 0 {
		opts = append([]Option{WithSnapshots(NewSnapshots(SnapshotDir(path), n))}, opts...)
	}
	return Open(path, opts...), nil
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshots returns the snapshot keeper, or nil when snapshots are disabled.
func (s *Store) Snapshots() *Snapshots {
	return s.snapshots
}

// Load reads and migrates the data file. A missing file is an empty
// inventory. A file that cannot be read or decoded yields an empty document
// together with an error wrapping ErrCorrupt.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(), nil
		}
		return NewDocument(), fmt.Errorf("%w: read %s: %v", ErrCorrupt, s.path, err)
	}
	doc, err := s.Decode(data)
	if err != nil {
		return NewDocument(), err
	}
	return doc, nil
}

// Decode migrates raw file contents into a Document.
func (s *Store) Decode(data []byte) (*Document, error) {
	doc, err := newMigrator(s.log, s.now).document(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, s.path, err)
	}
	return doc, nil
}

// Encode renders doc the way it is written to disk.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes doc atomically: the data goes to a temporary file next to the
// target, is synced, and then renamed over it. On failure the temporary file
// is removed and the existing data file is left as it was.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("store: nil document")
	}
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if s.snapshots != nil {
		s.keepSnapshot()
	}
	return s.writeAtomic(data)
}

func (s *Store) keepSnapshot() {
	prev, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Msg("snapshot: read current data file")
		}
		return
	}
	if err := s.snapshots.Keep(prev, s.now()); err != nil {
		s.log.Warn().Err(err).Msg("snapshot: keep")
	}
}

func (s *Store) writeAtomic(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure directory: %w", err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "spool_tmp_*.json")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				s.log.Warn().Err(rmErr).Str("file", tmpPath).Msg("remove temp file")
			}
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("store: chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err = s.rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("store: replace data file: %w", err)
	}
	syncDir(dir)
	s.log.Debug().Str("file", s.path).Int("bytes", len(data)).Msg("saved inventory")
	return nil
}

// syncDir flushes the directory entry for the rename where the platform
// allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Restore replaces the data file with a snapshot. The snapshot must decode
// cleanly, and the current file is itself kept as a snapshot first.
func (s *Store) Restore(ctx context.Context, key string) (*Document, error) {
	if s.snapshots == nil {
		return nil, errors.New("store: snapshots are disabled")
	}
	data, err := s.snapshots.Read(key)
	if err != nil {
		return nil, err
	}
	doc, err := s.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
