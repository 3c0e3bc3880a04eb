package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/spool/pkg/roll"
)

// SetThreshold sets the low-stock level of material to grams, which must be
// a positive number.
func (s *Service) SetThreshold(ctx context.Context, material, grams string) (float64, error) {
	key := strings.TrimSpace(material)
	if key == "" {
		return 0, fmt.Errorf("%w: material is required", ErrInvalidInput)
	}
	v, err := roll.ParseAmount(grams)
	if err != nil {
		return 0, fmt.Errorf("%w: threshold for %s: %v", ErrInvalidInput, key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: threshold for %s must be positive", ErrInvalidInput, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return 0, err
	}
	if doc.Thresholds == nil {
		doc.Thresholds = map[string]float64{}
	}
	doc.Thresholds[key] = v
	return v, s.save(ctx, doc)
}

// ClearThreshold drops the configured level of material so the default
// applies again. It reports whether a level was configured.
func (s *Service) ClearThreshold(ctx context.Context, material string) (bool, error) {
	key := strings.TrimSpace(material)
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := doc.Thresholds[key]; !ok {
		return false, nil
	}
	delete(doc.Thresholds, key)
	return true, s.save(ctx, doc)
}

// Threshold is the low-stock level in effect for one material.
type Threshold struct {
	Material string  `json:"material"`
	Grams    float64 `json:"grams"`
	// Default is set when no level is configured for the material.
	Default bool `json:"default"`
}

// Thresholds lists every material that has a configured level or appears on
// a roll, sorted by name.
func (s *Service) Thresholds(ctx context.Context) ([]Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}

	materials := map[string]bool{}
	for m := range doc.Thresholds {
		materials[m] = true
	}
	for _, rolls := range [][]*roll.Roll{doc.Active, doc.Archived} {
		for _, r := range rolls {
			if m := strings.TrimSpace(r.Material); m != "" {
				materials[m] = true
			}
		}
	}

	out := make([]Threshold, 0, len(materials))
	for m := range materials {
		v, ok := doc.Thresholds[m]
		out = append(out, Threshold{
			Material: m,
			Grams:    doc.ThresholdFor(m),
			Default:  !ok || v <= 0,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out, nil
}

// ThresholdFor returns the low-stock level of material.
func (s *Service) ThresholdFor(ctx context.Context, material string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return 0, err
	}
	return doc.ThresholdFor(material), nil
}

// Alert is an active roll below the level of its material.
type Alert struct {
	Roll      *roll.Roll `json:"roll"`
	Remaining float64    `json:"remaining_grams"`
	Threshold float64    `json:"threshold"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s %s: %.1f g (threshold %g g)", a.Roll.Color, a.Roll.Material, a.Remaining, a.Threshold)
}

// LowStock lists the active rolls that are low, in inventory order.
func (s *Service) LowStock(ctx context.Context) ([]Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	var out []Alert
	for _, r := range doc.Active {
		if !doc.IsLow(r) {
			continue
		}
		out = append(out, Alert{
			Roll:      r.Clone(),
			Remaining: r.RemainingGrams,
			Threshold: doc.ThresholdFor(r.Material),
		})
	}
	return out, nil
}
