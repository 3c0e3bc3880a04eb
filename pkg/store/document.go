package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/spool/pkg/roll"
)

var (
	// ErrRollNotFound is returned when no roll carries the requested id.
	ErrRollNotFound = errors.New("store: roll not found")
	// ErrRollArchived is returned when a mutation targets an archived roll.
	ErrRollArchived = errors.New("store: roll is archived")
)

// Document is the whole persisted inventory.
type Document struct {
	Active      []*roll.Roll                  `json:"active"`
	Archived    []*roll.Roll                  `json:"archived"`
	Projects    map[string]*roll.ProjectStats `json:"projects"`
	Thresholds  map[string]float64            `json:"thresholds"`
	UsageEvents []roll.UsageEvent             `json:"usage_events"`

	// Extra holds top-level keys this version does not know. They are
	// written back after the known ones.
	Extra map[string]json.RawMessage `json:"-"`
}

var documentFields = map[string]struct{}{
	"active": {}, "archived": {}, "projects": {}, "thresholds": {}, "usage_events": {},
}

// MarshalJSON writes the known collections followed by any extra keys in
// sorted order.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	b, err := json.Marshal(plain(d))
	if err != nil || len(d.Extra) == 0 {
		return b, err
	}
	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		if _, known := documentFields[k]; !known {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(d.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewDocument returns a document with every collection initialized empty.
func NewDocument() *Document {
	return &Document{
		Active:      []*roll.Roll{},
		Archived:    []*roll.Roll{},
		Projects:    map[string]*roll.ProjectStats{},
		Thresholds:  map[string]float64{},
		UsageEvents: []roll.UsageEvent{},
	}
}

// Find looks a roll up by id in active then archived. The bool reports
// whether the roll is active.
func (d *Document) Find(id string) (*roll.Roll, bool, error) {
	for _, r := range d.Active {
		if r.ID == id {
			return r, true, nil
		}
	}
	for _, r := range d.Archived {
		if r.ID == id {
			return r, false, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %q", ErrRollNotFound, id)
}

// Add appends r to the active rolls.
func (d *Document) Add(r *roll.Roll) {
	d.Active = append(d.Active, r)
}

// Archive moves the active roll with the given id to the archive. Archiving
// is one way; an already archived roll yields ErrRollArchived.
func (d *Document) Archive(id string) (*roll.Roll, error) {
	for i, r := range d.Active {
		if r.ID != id {
			continue
		}
		d.Active = append(d.Active[:i:i], d.Active[i+1:]...)
		d.Archived = append(d.Archived, r)
		return r, nil
	}
	if _, _, err := d.Find(id); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrRollArchived, id)
}

// UseFilament takes grams from the active roll id, logs the usage event,
// credits the project when one is named and archives the roll once it is
// empty. grams must be positive.
func (d *Document) UseFilament(id string, grams float64, project string, now time.Time) (roll.UsageEvent, error) {
	if grams <= 0 {
		return roll.UsageEvent{}, fmt.Errorf("store: used grams must be positive, got %v", grams)
	}
	r, active, err := d.Find(id)
	if err != nil {
		return roll.UsageEvent{}, err
	}
	if !active {
		return roll.UsageEvent{}, fmt.Errorf("%w: %q", ErrRollArchived, id)
	}

	project = strings.TrimSpace(project)
	cost := r.Use(grams)
	ev := roll.NewUsageEvent(r, project, grams, cost, now)
	d.UsageEvents = append(d.UsageEvents, ev)

	if project != "" {
		if d.Projects == nil {
			d.Projects = map[string]*roll.ProjectStats{}
		}
		p, ok := d.Projects[project]
		if !ok {
			p = &roll.ProjectStats{}
			d.Projects[project] = p
		}
		p.Add(grams, cost)
	}

	if r.Depleted() {
		if _, err := d.Archive(r.ID); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// ThresholdFor returns the configured low-stock level for material, or
// roll.DefaultThreshold when none is set or the setting is not positive.
func (d *Document) ThresholdFor(material string) float64 {
	key := strings.TrimSpace(material)
	if key == "" {
		return roll.DefaultThreshold
	}
	if v, ok := d.Thresholds[key]; ok && v > 0 {
		return v
	}
	return roll.DefaultThreshold
}

// IsLow reports whether r is below the threshold of its material.
func (d *Document) IsLow(r *roll.Roll) bool {
	return r.RemainingGrams < d.ThresholdFor(r.Material)
}

// Status classifies r for display.
func (d *Document) Status(r *roll.Roll) roll.Status {
	return roll.StatusFor(r.RemainingGrams, d.ThresholdFor(r.Material))
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := NewDocument()
	for _, r := range d.Active {
		cp.Active = append(cp.Active, r.Clone())
	}
	for _, r := range d.Archived {
		cp.Archived = append(cp.Archived, r.Clone())
	}
	for name, p := range d.Projects {
		stats := *p
		cp.Projects[name] = &stats
	}
	for m, v := range d.Thresholds {
		cp.Thresholds[m] = v
	}
	cp.UsageEvents = append(cp.UsageEvents, d.UsageEvents...)
	if d.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			cp.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return cp
}
