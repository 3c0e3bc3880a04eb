package store

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/spool/pkg/roll"
)

// rawRoll is a roll as found on disk, before migration.
type rawRoll map[string]json.RawMessage

// migration fills in the fields one historical version of the file format
// introduced. Rules run in order and must be idempotent.
type migration struct {
	version int
	apply   func(r rawRoll, m *migrator)
}

var (
	jsonEmptyString = json.RawMessage(`""`)
	jsonZero        = json.RawMessage(`0.0`)
	jsonNull        = json.RawMessage(`null`)
)

var migrations = []migration{
	{version: 1, apply: func(r rawRoll, _ *migrator) {
		setDefault(r, "color", jsonEmptyString)
		setDefault(r, "material", jsonEmptyString)
		setDefault(r, "remaining_grams", jsonZero)
		setDefault(r, "description", jsonEmptyString)
	}},
	{version: 2, apply: func(r rawRoll, _ *migrator) {
		setDefault(r, "price_per_gram", jsonZero)
		setDefault(r, "photo_b64", jsonNull)
	}},
	{version: 3, apply: func(r rawRoll, m *migrator) {
		setDefault(r, "initial_weight", jsonZero)
		setDefault(r, "initial_price", jsonZero)
		setDefault(r, "used_grams", jsonZero)
		if roll.CoerceString(r["created_at"]) == "" {
			b, _ := json.Marshal(roll.FormatTime(m.now()))
			r["created_at"] = b
		}
		if roll.CoerceString(r["id"]) == "" || isFalsy(r["id"]) {
			id := m.newID()
			m.log.Debug().Str("id", id).Msg("assigned id to roll without one")
			b, _ := json.Marshal(id)
			r["id"] = b
		}
	}},
}

// CurrentVersion is the newest roll layout the migrations produce.
var CurrentVersion = migrations[len(migrations)-1].version

func setDefault(r rawRoll, key string, v json.RawMessage) {
	if _, ok := r[key]; !ok {
		r[key] = v
	}
}

func isFalsy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

// migrator turns raw documents into typed ones.
type migrator struct {
	log  zerolog.Logger
	now  func() time.Time
	seen map[string]bool
}

func newMigrator(log zerolog.Logger, now func() time.Time) *migrator {
	if now == nil {
		now = time.Now
	}
	return &migrator{log: log, now: now, seen: make(map[string]bool)}
}

// newID derives a time based id that no roll seen so far in this document
// carries.
func (m *migrator) newID() string {
	t := m.now()
	id := roll.NewID(t)
	for m.seen[id] {
		t = t.Add(time.Millisecond)
		id = roll.NewID(t)
	}
	m.seen[id] = true
	return id
}

// document decodes data and normalizes it to the current layout. Top-level
// fields of the wrong shape are reset to empty.
func (m *migrator) document(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, fmt.Errorf("document is not an object")
	}

	for _, bucket := range []string{"active", "archived"} {
		m.collectIDs(top[bucket])
	}

	doc := NewDocument()
	doc.Active = m.rolls("active", top["active"])
	doc.Archived = m.rolls("archived", top["archived"])

	var projects map[string]json.RawMessage
	if raw, ok := top["projects"]; ok && json.Unmarshal(raw, &projects) == nil {
		for name, raw := range projects {
			doc.Projects[name] = m.project(name, raw)
		}
	} else if ok {
		m.log.Warn().Msg("projects is not an object, resetting")
	}

	var thresholds map[string]json.RawMessage
	if raw, ok := top["thresholds"]; ok && json.Unmarshal(raw, &thresholds) == nil {
		for material, raw := range thresholds {
			doc.Thresholds[material] = roll.CoerceNumber(raw)
		}
	} else if ok {
		m.log.Warn().Msg("thresholds is not an object, resetting")
	}

	var events []json.RawMessage
	if raw, ok := top["usage_events"]; ok && json.Unmarshal(raw, &events) == nil {
		for i, item := range events {
			var ev map[string]json.RawMessage
			if err := json.Unmarshal(item, &ev); err != nil || ev == nil {
				m.log.Warn().Int("index", i).Msg("dropping usage event that is not an object")
				continue
			}
			doc.UsageEvents = append(doc.UsageEvents, m.event(ev))
		}
	} else if ok {
		m.log.Warn().Msg("usage_events is not an array, resetting")
	}

	for k, v := range top {
		if _, known := documentFields[k]; known {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]json.RawMessage)
		}
		doc.Extra[k] = v
	}
	return doc, nil
}

// collectIDs records the ids already present so synthesized ones stay unique.
func (m *migrator) collectIDs(raw json.RawMessage) {
	var items []struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal(raw, &items) != nil {
		return
	}
	for _, item := range items {
		if id := roll.CoerceString(item.ID); id != "" {
			m.seen[id] = true
		}
	}
}

func (m *migrator) rolls(bucket string, raw json.RawMessage) []*roll.Roll {
	out := []*roll.Roll{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		m.log.Warn().Str("bucket", bucket).Msg("rolls are not an array, resetting")
		return out
	}
	for i, item := range items {
		var r rawRoll
		if err := json.Unmarshal(item, &r); err != nil || r == nil {
			m.log.Warn().Str("bucket", bucket).Int("index", i).Msg("dropping roll that is not an object")
			continue
		}
		out = append(out, m.roll(r))
	}
	return out
}

// roll applies every migration rule to r and coerces it into a typed Roll.
func (m *migrator) roll(r rawRoll) *roll.Roll {
	for _, mig := range migrations {
		mig.apply(r, m)
	}

	out := &roll.Roll{
		ID:             roll.CoerceString(r["id"]),
		Color:          roll.CoerceString(r["color"]),
		Material:       roll.CoerceString(r["material"]),
		RemainingGrams: max(roll.CoerceNumber(r["remaining_grams"]), 0),
		Description:    roll.CoerceString(r["description"]),
		PricePerGram:   roll.CoerceNumber(r["price_per_gram"]),
		InitialWeight:  roll.CoerceNumber(r["initial_weight"]),
		InitialPrice:   roll.CoerceNumber(r["initial_price"]),
		UsedGrams:      roll.CoerceNumber(r["used_grams"]),
		CreatedAt:      roll.TimestampFrom(roll.CoerceString(r["created_at"])),
	}
	out.Photo, out.PhotoText = m.photo(r)
	for k, v := range r {
		if roll.IsKnownField(k) {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}
	return out
}

// photo decodes photo_b64. Text that is not base64 is returned as is so the
// next save writes it back unchanged.
func (m *migrator) photo(r rawRoll) ([]byte, string) {
	text := roll.CoerceString(r["photo_b64"])
	if text == "" {
		return nil, ""
	}
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		m.log.Warn().Err(err).Str("roll", roll.CoerceString(r["id"])).Msg("keeping undecodable photo as text")
		return nil, text
	}
	return b, ""
}

func (m *migrator) project(name string, raw json.RawMessage) *roll.ProjectStats {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		m.log.Warn().Str("project", name).Msg("project stats are not an object, resetting")
		return &roll.ProjectStats{}
	}
	return &roll.ProjectStats{
		Grams:  roll.CoerceNumber(fields["grams"]),
		Cost:   roll.CoerceNumber(fields["cost"]),
		Events: roll.CoerceInt(fields["events"]),
	}
}

func (m *migrator) event(ev map[string]json.RawMessage) roll.UsageEvent {
	return roll.UsageEvent{
		RollID:    roll.CoerceString(ev["roll_id"]),
		Project:   roll.CoerceString(ev["project"]),
		UsedGrams: roll.CoerceNumber(ev["used_grams"]),
		Cost:      roll.CoerceNumber(ev["cost"]),
		Timestamp: roll.TimestampFrom(roll.CoerceString(ev["ts"])),
	}
}
