package store

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/spool/pkg/roll"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const legacyDocument = `{
  "active": [
    {"color": "Red", "material": "PLA", "remaining_grams": "12,5", "description": "v1 roll"},
    {"color": "Blue", "material": "PETG", "remaining_grams": 800, "price_per_gram": "0.025", "photo_b64": "aGVsbG8="},
    {"id": "r42", "color": "Black", "material": "ABS", "remaining_grams": 100, "used_grams": 900,
     "initial_weight": 1000, "initial_price": "25", "price_per_gram": 0.025,
     "created_at": "2024-05-01T12:34:56.789012", "vendor": "Prusa"},
    "not a roll"
  ],
  "archived": [
    {"id": "", "color": "White", "material": "PLA", "remaining_grams": 0}
  ],
  "projects": {"Vase": {"grams": "50", "cost": 1, "events": 2}, "Broken": 7},
  "thresholds": {"PLA": "500", "ABS": 250},
  "usage_events": [
    {"roll_id": "r42", "project": null, "used_grams": "10", "cost": 0.25, "ts": "2024-05-02T10:00:00"},
    3
  ]
}`

// keepsDocument carries values a save must write back as found.
const keepsDocument = `{
  "active": [
    {"id": "r1", "color": "Grey", "material": "PLA", "remaining_grams": -40,
     "created_at": "0001-01-01T00:00:00", "photo_b64": "not base64!"},
    {"id": "r2", "color": "Green", "material": "PLA", "remaining_grams": 10,
     "created_at": "0001-01-01T00:00:00Z", "photo_b64": null}
  ],
  "archived": [],
  "printer": {"model": "MK4", "nozzle": 0.4},
  "schema": 3
}`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "filament_data.json"))
	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Active == nil || doc.Archived == nil || doc.Projects == nil || doc.Thresholds == nil || doc.UsageEvents == nil {
		t.Fatalf("expected every collection initialized, got %#v", doc)
	}
	if len(doc.Active)+len(doc.Archived)+len(doc.UsageEvents) != 0 {
		t.Fatalf("expected empty document")
	}
}

func TestLoadCorruptFallsBackToEmpty(t *testing.T) {
	for name, data := range map[string]string{
		"invalid json": `{"active": [`,
		"not object":   `[1, 2, 3]`,
		"null":         `null`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "filament_data.json")
			writeFile(t, path, data)
			doc, err := Open(path).Load(context.Background())
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if doc == nil || len(doc.Active) != 0 || doc.Projects == nil {
				t.Fatalf("expected empty document fallback, got %#v", doc)
			}
		})
	}
}

func TestLoadMigratesLegacyRolls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filament_data.json")
	writeFile(t, path, legacyDocument)

	doc, err := Open(path, WithClock(fixedClock)).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Active) != 3 {
		t.Fatalf("expected 3 active rolls (non-object dropped), got %d", len(doc.Active))
	}

	v1 := doc.Active[0]
	if v1.RemainingGrams != 12.5 {
		t.Fatalf("expected comma decimal coerced, got %v", v1.RemainingGrams)
	}
	if v1.ID != roll.NewID(fixedNow) {
		t.Fatalf("expected synthesized id, got %q", v1.ID)
	}
	if v1.CreatedAt.String() != roll.FormatTime(fixedNow) {
		t.Fatalf("expected created_at defaulted, got %q", v1.CreatedAt)
	}
	if v1.Photo != nil || v1.InitialWeight != 0 || v1.UsedGrams != 0 || v1.PricePerGram != 0 {
		t.Fatalf("expected zero defaults, got %#v", v1)
	}

	v2 := doc.Active[1]
	if v2.PricePerGram != 0.025 {
		t.Fatalf("expected price per gram parsed from text, got %v", v2.PricePerGram)
	}
	if string(v2.Photo) != "hello" {
		t.Fatalf("expected photo decoded, got %q", v2.Photo)
	}
	if v2.ID == v1.ID {
		t.Fatalf("synthesized ids must differ, both %q", v1.ID)
	}

	v3 := doc.Active[2]
	if v3.ID != "r42" || v3.InitialPrice != 25 || v3.UsedGrams != 900 {
		t.Fatalf("unexpected v3 roll %#v", v3)
	}
	if string(v3.Extra["vendor"]) != `"Prusa"` {
		t.Fatalf("expected unknown field kept, got %v", v3.Extra)
	}

	if len(doc.Archived) != 1 || doc.Archived[0].ID == "" {
		t.Fatalf("expected archived roll with synthesized id, got %#v", doc.Archived)
	}

	if got := doc.Projects["Vase"]; got == nil || got.Grams != 50 || got.Cost != 1 || got.Events != 2 {
		t.Fatalf("unexpected project stats %#v", got)
	}
	if got := doc.Projects["Broken"]; got == nil || *got != (roll.ProjectStats{}) {
		t.Fatalf("expected malformed project reset, got %#v", got)
	}
	if doc.Thresholds["PLA"] != 500 || doc.Thresholds["ABS"] != 250 {
		t.Fatalf("unexpected thresholds %v", doc.Thresholds)
	}
	if len(doc.UsageEvents) != 1 || doc.UsageEvents[0].UsedGrams != 10 || doc.UsageEvents[0].Project != "" {
		t.Fatalf("unexpected usage events %#v", doc.UsageEvents)
	}
}

func TestLoadResetsMisshapenCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filament_data.json")
	writeFile(t, path, `{"active": {}, "projects": [], "thresholds": "x", "usage_events": {}}`)
	doc, err := Open(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Active) != 0 || doc.Archived == nil || len(doc.Projects) != 0 || len(doc.Thresholds) != 0 || len(doc.UsageEvents) != 0 {
		t.Fatalf("expected reset collections, got %#v", doc)
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	for name, data := range map[string]string{
		"legacy": legacyDocument,
		"keeps":  keepsDocument,
	} {
		t.Run(name, func(t *testing.T) {
			s := Open("unused.json", WithClock(fixedClock))
			first, err := s.Decode([]byte(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			once, err := Encode(first)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			later := Open("unused.json", WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))
			second, err := later.Decode(once)
			if err != nil {
				t.Fatalf("decode again: %v", err)
			}
			twice, err := Encode(second)
			if err != nil {
				t.Fatalf("encode again: %v", err)
			}
			if !bytes.Equal(once, twice) {
				t.Fatalf("migration drifted:\n%s\n---\n%s", once, twice)
			}
		})
	}
}

func TestLoadKeepsWhatItCannotInterpret(t *testing.T) {
	s := Open("unused.json", WithClock(fixedClock))
	doc, err := s.Decode([]byte(keepsDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r1 := doc.Active[0]
	if r1.RemainingGrams != 0 {
		t.Fatalf("expected negative remaining floored at 0, got %v", r1.RemainingGrams)
	}
	if !r1.CreatedAt.Valid() || r1.CreatedAt.String() != "0001-01-01T00:00:00.000000" {
		t.Fatalf("expected zero created_at kept, got %q", r1.CreatedAt)
	}
	if r1.Photo != nil || r1.PhotoText != "not base64!" {
		t.Fatalf("expected photo text kept, got %q / %q", r1.Photo, r1.PhotoText)
	}

	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		`"created_at": "0001-01-01T00:00:00.000000"`,
		`"photo_b64": "not base64!"`,
		`"photo_b64": null`,
		`"remaining_grams": 0`,
		`"schema": 3`,
		`"model": "MK4"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in:\n%s", want, text)
		}
	}
	if strings.Contains(text, `"created_at": ""`) {
		t.Errorf("created_at written empty:\n%s", text)
	}
	if strings.Index(text, `"usage_events"`) > strings.Index(text, `"printer"`) {
		t.Errorf("expected unknown keys after the known ones:\n%s", text)
	}
}

func TestSaveLoadRoundTripIsStable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "filament_data.json")
	writeFile(t, path, legacyDocument)
	s := Open(path, WithClock(fixedClock))

	for i := 0; i < 2; i++ {
		doc, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if err := s.Save(ctx, doc); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	first, _ := os.ReadFile(path)

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, _ := os.ReadFile(path)
	if !bytes.Equal(first, second) {
		t.Fatalf("save(load()) is not stable:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(string(second), "\n  \"active\": [") {
		t.Fatalf("expected indented output, got %s", second)
	}
}

func TestSaveInterruptedBeforeRenameKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "filament_data.json")
	writeFile(t, path, legacyDocument)

	s := Open(path)
	s.rename = func(string, string) error { return errors.New("power cut") }

	doc := NewDocument()
	doc.Add(roll.New("Green", "TPU", "", 500, 30, 500, fixedNow))
	err := s.Save(ctx, doc)
	if err == nil || !strings.Contains(err.Error(), "power cut") {
		t.Fatalf("expected rename failure, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != legacyDocument {
		t.Fatalf("original file changed")
	}
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("original no longer readable: %v", err)
	}
	assertNoTempFiles(t, dir)
}

func TestSaveEncodeFailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filament_data.json")
	writeFile(t, path, legacyDocument)

	doc := NewDocument()
	doc.Add(&roll.Roll{ID: "r1", RemainingGrams: math.NaN()})
	if err := Open(path).Save(context.Background(), doc); err == nil {
		t.Fatalf("expected encode failure")
	}
	data, _ := os.ReadFile(path)
	if string(data) != legacyDocument {
		t.Fatalf("original file changed")
	}
	assertNoTempFiles(t, dir)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.json")
	if err := Open(path).Save(context.Background(), NewDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected 0644, got %v", info.Mode().Perm())
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "spool_tmp_*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}

func TestSnapshotsKeepAndRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "filament_data.json")
	tick := fixedNow
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	s := Open(path, WithClock(clock), WithSnapshots(NewSnapshots(SnapshotDir(path), 2)))

	doc := NewDocument()
	doc.Add(roll.New("Red", "PLA", "", 1000, 20, 1000, fixedNow))
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if keys := s.Snapshots().Keys(); len(keys) != 0 {
		t.Fatalf("first save has nothing to keep, got %v", keys)
	}

	doc.Active[0].Color = "Orange"
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	doc.Active[0].Color = "Yellow"
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save 3: %v", err)
	}
	doc.Active[0].Color = "Purple"
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save 4: %v", err)
	}

	keys := s.Snapshots().Keys()
	if len(keys) != 2 {
		t.Fatalf("expected pruning to 2 snapshots, got %v", keys)
	}
	if _, ok := s.Snapshots().Time(keys[0]); !ok {
		t.Fatalf("snapshot key %q is not a time", keys[0])
	}

	restored, err := s.Restore(ctx, keys[0])
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Active[0].Color != "Orange" {
		t.Fatalf("expected Orange restored, got %q", restored.Active[0].Color)
	}
	reloaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reloaded.Active[0].Color != "Orange" {
		t.Fatalf("restore not persisted, got %q", reloaded.Active[0].Color)
	}

	if _, err := s.Restore(ctx, "nope"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}
