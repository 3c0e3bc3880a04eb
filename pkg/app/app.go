package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/spool/pkg/roll"
	"tableflip.dev/spool/pkg/store"
)

// Service provides the inventory operations shared by the CLI and the MCP
// server. It owns the loaded document: consumers read copies and change the
// inventory only through Service methods, each of which saves on success.
type Service struct {
	Persistence store.Persistence
	Log         zerolog.Logger
	// Now is time.Now when nil.
	Now func() time.Time

	mu  sync.Mutex
	doc *store.Document
}

var (
	ErrNotFound     = errors.New("app: roll not found")
	ErrArchived     = errors.New("app: roll is archived")
	ErrInvalidInput = errors.New("app: invalid input")
)

var errNoPersistence = errors.New("app: no persistence configured")

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load (re)reads the inventory. A corrupt data file leaves the service with
// an empty inventory and the returned error wraps store.ErrCorrupt; the
// service stays usable either way.
func (s *Service) Load(ctx context.Context) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) error {
	doc, err := s.Persistence.Load(ctx)
	if doc == nil {
		if err == nil {
			err = errors.New("app: persistence returned no document")
		}
		return err
	}
	s.doc = doc
	if err != nil {
		s.Log.Warn().Err(err).Str("file", s.Persistence.Path()).Msg("starting from an empty inventory")
	}
	return err
}

// document returns the loaded document, loading it on first use. Corrupt
// files are tolerated here; Load reports them.
func (s *Service) document(ctx context.Context) (*store.Document, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if s.doc != nil {
		return s.doc, nil
	}
	if err := s.load(ctx); err != nil && !errors.Is(err, store.ErrCorrupt) {
		return nil, err
	}
	return s.doc, nil
}

// Document returns a copy of the current inventory.
func (s *Service) Document(ctx context.Context) (*store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// save persists doc. The in-memory document keeps the change when the write
// fails so the caller can retry.
func (s *Service) save(ctx context.Context, doc *store.Document) error {
	if err := s.Persistence.Save(ctx, doc); err != nil {
		return fmt.Errorf("app: save: %w", err)
	}
	return nil
}

// Save writes the current inventory again, for retrying a failed save.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// RollInput is the text a user typed for a new roll.
type RollInput struct {
	Color         string
	Material      string
	Description   string
	InitialWeight string
	InitialPrice  string
	// Remaining defaults to InitialWeight when blank.
	Remaining string
	Photo     []byte
}

// AddRoll validates in and appends the new roll to the active rolls.
func (s *Service) AddRoll(ctx context.Context, in RollInput) (*roll.Roll, error) {
	weight, err := amount("initial weight", in.InitialWeight)
	if err != nil {
		return nil, err
	}
	price, err := amount("initial price", in.InitialPrice)
	if err != nil {
		return nil, err
	}
	remaining := weight
	if strings.TrimSpace(in.Remaining) != "" {
		if remaining, err = amount("remaining grams", in.Remaining); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}

	r := roll.New(
		strings.TrimSpace(in.Color),
		strings.TrimSpace(in.Material),
		strings.TrimSpace(in.Description),
		weight, price, remaining, s.uniqueNow(doc),
	)
	if len(in.Photo) > 0 {
		r.Photo = append([]byte(nil), in.Photo...)
	}
	doc.Add(r)
	s.Log.Debug().Str("id", r.ID).Str("roll", r.Label()).Msg("added roll")
	if err := s.save(ctx, doc); err != nil {
		return r.Clone(), err
	}
	return r.Clone(), nil
}

// uniqueNow is the current time, moved forward a millisecond at a time until
// it yields an id no roll in doc carries.
func (s *Service) uniqueNow(doc *store.Document) time.Time {
	t := s.now()
	for {
		if _, _, err := doc.Find(roll.NewID(t)); err != nil {
			return t
		}
		t = t.Add(time.Millisecond)
	}
}

// RollEdit lists the fields to change on a roll. Nil fields are kept.
type RollEdit struct {
	Color         *string
	Material      *string
	Description   *string
	InitialWeight *string
	InitialPrice  *string
	Remaining     *string
	Photo         []byte
	ClearPhoto    bool
}

// EditRoll applies e to the active roll id. The price per gram is derived
// again from the initial weight and price; id, creation time and used grams
// never change.
func (s *Service) EditRoll(ctx context.Context, id string, e RollEdit) (*roll.Roll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	r, err := activeRoll(doc, id)
	if err != nil {
		return nil, err
	}

	next := r.Clone()
	if e.Color != nil {
		next.Color = strings.TrimSpace(*e.Color)
	}
	if e.Material != nil {
		next.Material = strings.TrimSpace(*e.Material)
	}
	if e.Description != nil {
		next.Description = strings.TrimSpace(*e.Description)
	}
	if e.InitialWeight != nil {
		if next.InitialWeight, err = amount("initial weight", *e.InitialWeight); err != nil {
			return nil, err
		}
	}
	if e.InitialPrice != nil {
		if next.InitialPrice, err = amount("initial price", *e.InitialPrice); err != nil {
			return nil, err
		}
	}
	if e.Remaining != nil {
		if next.RemainingGrams, err = amount("remaining grams", *e.Remaining); err != nil {
			return nil, err
		}
	}
	switch {
	case e.ClearPhoto:
		next.Photo, next.PhotoText = nil, ""
	case len(e.Photo) > 0:
		next.Photo, next.PhotoText = append([]byte(nil), e.Photo...), ""
	}
	next.Reprice()

	*r = *next
	if err := s.save(ctx, doc); err != nil {
		return r.Clone(), err
	}
	return r.Clone(), nil
}

// ArchiveRolls moves the given active rolls to the archive. Every id must
// exist; ids that are already archived are skipped.
func (s *Service) ArchiveRolls(ctx context.Context, ids ...string) ([]*roll.Roll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, _, err := doc.Find(id); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
	}

	var moved []*roll.Roll
	for _, id := range ids {
		r, err := doc.Archive(id)
		if errors.Is(err, store.ErrRollArchived) {
			continue
		}
		if err != nil {
			return nil, err
		}
		moved = append(moved, r.Clone())
	}
	if len(moved) == 0 {
		return nil, nil
	}
	if err := s.save(ctx, doc); err != nil {
		return moved, err
	}
	return moved, nil
}

// UseResult is the outcome of UseFilament.
type UseResult struct {
	Event    roll.UsageEvent `json:"event"`
	Roll     *roll.Roll      `json:"roll"`
	Archived bool            `json:"archived"`
	// Low is set when the roll is still active and below its threshold.
	Low bool `json:"low"`
}

// UseFilament takes grams from the active roll id and attributes them to
// project when one is named. The roll is archived once it is empty.
func (s *Service) UseFilament(ctx context.Context, id string, grams float64, project string) (UseResult, error) {
	if grams <= 0 || math.IsNaN(grams) || math.IsInf(grams, 0) {
		return UseResult{}, fmt.Errorf("%w: used grams must be a positive number", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return UseResult{}, err
	}
	r, err := activeRoll(doc, id)
	if err != nil {
		return UseResult{}, err
	}

	ev, err := doc.UseFilament(id, grams, project, s.now())
	if err != nil {
		return UseResult{}, err
	}
	res := UseResult{
		Event:    ev,
		Roll:     r.Clone(),
		Archived: r.Depleted(),
	}
	res.Low = !res.Archived && doc.IsLow(r)
	s.Log.Debug().
		Str("id", id).
		Float64("grams", grams).
		Str("project", ev.Project).
		Bool("archived", res.Archived).
		Msg("used filament")

	if err := s.save(ctx, doc); err != nil {
		return res, err
	}
	return res, nil
}

// UseFilamentText is UseFilament for grams typed by a user.
func (s *Service) UseFilamentText(ctx context.Context, id, grams, project string) (UseResult, error) {
	g, err := roll.ParseAmount(grams)
	if err != nil {
		return UseResult{}, fmt.Errorf("%w: used grams: %v", ErrInvalidInput, err)
	}
	return s.UseFilament(ctx, id, g, project)
}

// Roll returns a copy of the roll id, active or archived.
func (s *Service) Roll(ctx context.Context, id string) (*roll.Roll, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, false, err
	}
	r, active, err := doc.Find(id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r.Clone(), active, nil
}

func activeRoll(doc *store.Document, id string) (*roll.Roll, error) {
	r, active, err := doc.Find(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if !active {
		return nil, fmt.Errorf("%w: %q", ErrArchived, id)
	}
	return r, nil
}

// amount parses a non-negative number typed by a user.
func amount(field, v string) (float64, error) {
	f, err := roll.ParseAmount(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	}
	return f, nil
}
