package roll

import (
	"encoding/json"
	"time"
)

// UsageEvent records one use of filament from a roll. Events are never
// changed once appended.
type UsageEvent struct {
	RollID    string    `json:"roll_id"`
	Project   string    `json:"project"`
	UsedGrams float64   `json:"used_grams"`
	Cost      float64   `json:"cost"`
	Timestamp Timestamp `json:"ts"`
}

// NewUsageEvent builds the event for grams taken from r at cost.
func NewUsageEvent(r *Roll, project string, grams, cost float64, now time.Time) UsageEvent {
	return UsageEvent{
		RollID:    r.ID,
		Project:   project,
		UsedGrams: grams,
		Cost:      cost,
		Timestamp: NewTimestamp(now),
	}
}

// MarshalJSON writes an empty project as null.
func (e UsageEvent) MarshalJSON() ([]byte, error) {
	var project *string
	if e.Project != "" {
		project = &e.Project
	}
	return json.Marshal(struct {
		RollID    string    `json:"roll_id"`
		Project   *string   `json:"project"`
		UsedGrams float64   `json:"used_grams"`
		Cost      float64   `json:"cost"`
		Timestamp Timestamp `json:"ts"`
	}{e.RollID, project, e.UsedGrams, e.Cost, e.Timestamp})
}

// ProjectStats accumulates the usage attributed to one project.
type ProjectStats struct {
	Grams  float64 `json:"grams"`
	Cost   float64 `json:"cost"`
	Events int     `json:"events"`
}

// Add folds one usage into the totals.
func (p *ProjectStats) Add(grams, cost float64) {
	p.Grams += grams
	p.Cost += cost
	p.Events++
}
