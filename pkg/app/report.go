package app

import (
	"context"
	"io"
	"sort"
	"time"

	"tableflip.dev/spool/pkg/roll"
	"tableflip.dev/spool/pkg/store"
)

// UnknownMaterial labels usage whose roll no longer names a material.
const UnknownMaterial = "Unknown"

// ReportItem is one usage event with the roll it was taken from.
type ReportItem struct {
	Event roll.UsageEvent `json:"event"`
	// Roll is nil when the event names a roll that is not in the inventory.
	Roll *roll.Roll `json:"roll,omitempty"`
}

// ReportSection groups the usage of one project. Usage without a project is
// grouped under the empty name.
type ReportSection struct {
	Project string       `json:"project"`
	Items   []ReportItem `json:"items"`
	Grams   float64      `json:"grams"`
	Cost    float64      `json:"cost"`
}

// ReportResult is the usage recorded in a time window.
type ReportResult struct {
	Since    time.Time       `json:"since"`
	Until    time.Time       `json:"until"`
	Sections []ReportSection `json:"sections"`
	Total    int             `json:"total"`
	Grams    float64         `json:"grams"`
	Cost     float64         `json:"cost"`
}

// Usage returns the usage events between since and until grouped by project,
// newest first within a project. Events whose time cannot be read are left
// out.
func (s *Service) Usage(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	rolls := indexRolls(doc)
	grouped := make(map[string]*ReportSection)
	result := ReportResult{Since: since, Until: until}
	for _, ev := range doc.UsageEvents {
		if !ev.Timestamp.Valid() {
			continue
		}
		at := ev.Timestamp.Time
		if at.Before(since) || at.After(until) {
			continue
		}
		section, ok := grouped[ev.Project]
		if !ok {
			section = &ReportSection{Project: ev.Project}
			grouped[ev.Project] = section
		}
		item := ReportItem{Event: ev}
		if r, ok := rolls[ev.RollID]; ok {
			item.Roll = r.Clone()
		}
		section.Items = append(section.Items, item)
		section.Grams += ev.UsedGrams
		section.Cost += ev.Cost
		result.Total++
		result.Grams += ev.UsedGrams
		result.Cost += ev.Cost
	}

	if len(grouped) == 0 {
		return result, nil
	}

	projects := make([]string, 0, len(grouped))
	for project := range grouped {
		projects = append(projects, project)
	}
	sort.Strings(projects)

	result.Sections = make([]ReportSection, 0, len(projects))
	for _, project := range projects {
		section := grouped[project]
		sort.SliceStable(section.Items, func(i, j int) bool {
			return section.Items[i].Event.Timestamp.After(section.Items[j].Event.Timestamp.Time)
		})
		result.Sections = append(result.Sections, *section)
	}
	return result, nil
}

// Total is an amount of filament for one label.
type Total struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
}

// Aggregates are the chart series: grams used per material and per day.
type Aggregates struct {
	Materials []Total `json:"materials"`
	Days      []Total `json:"days"`
}

// ChartRenderer draws aggregates. The inventory never depends on one being
// available.
type ChartRenderer interface {
	RenderChart(w io.Writer, a Aggregates) error
}

// Aggregates totals usage events between since and until. Zero bounds are
// open. Materials are sorted by name and days ascending; events with an
// unreadable time count toward today.
func (s *Service) Aggregates(ctx context.Context, since, until time.Time) (Aggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return Aggregates{}, err
	}

	rolls := indexRolls(doc)
	materials := map[string]float64{}
	days := map[string]float64{}
	now := s.now()
	for _, ev := range doc.UsageEvents {
		at := now
		if ev.Timestamp.Valid() {
			at = ev.Timestamp.Time
		}
		if (!since.IsZero() && at.Before(since)) || (!until.IsZero() && at.After(until)) {
			continue
		}
		material := UnknownMaterial
		if r, ok := rolls[ev.RollID]; ok && r.Material != "" {
			material = r.Material
		}
		materials[material] += ev.UsedGrams
		days[at.UTC().Format(time.DateOnly)] += ev.UsedGrams
	}
	return Aggregates{
		Materials: sortedTotals(materials),
		Days:      sortedTotals(days),
	}, nil
}

// Chart renders the aggregates of the window with r.
func (s *Service) Chart(ctx context.Context, w io.Writer, r ChartRenderer, since, until time.Time) error {
	a, err := s.Aggregates(ctx, since, until)
	if err != nil {
		return err
	}
	return r.RenderChart(w, a)
}

func sortedTotals(m map[string]float64) []Total {
	out := make([]Total, 0, len(m))
	for label, grams := range m {
		out = append(out, Total{Label: label, Grams: grams})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func indexRolls(doc *store.Document) map[string]*roll.Roll {
	indexed := make(map[string]*roll.Roll, len(doc.Active)+len(doc.Archived))
	for _, rolls := range [][]*roll.Roll{doc.Active, doc.Archived} {
		for _, r := range rolls {
			if r == nil || r.ID == "" {
				continue
			}
			if _, seen := indexed[r.ID]; !seen {
				indexed[r.ID] = r
			}
		}
	}
	return indexed
}
