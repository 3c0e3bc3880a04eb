package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/spool/pkg/roll"
)

// Columns rolls can be sorted by.
const (
	SortID            = "id"
	SortColor         = "color"
	SortMaterial      = "material"
	SortRemaining     = "remaining_grams"
	SortDescription   = "description"
	SortPricePerGram  = "price_per_gram"
	SortInitialWeight = "initial_weight"
	SortInitialPrice  = "initial_price"
	SortUsed          = "used_grams"
	SortCreated       = "created_at"
)

// SortColumns lists the accepted ListOptions.SortBy values.
var SortColumns = []string{
	SortID, SortColor, SortMaterial, SortRemaining, SortDescription,
	SortPricePerGram, SortInitialWeight, SortInitialPrice, SortUsed, SortCreated,
}

// FilterFields lists the accepted ListOptions.Field values. An empty field
// matches any of them.
var FilterFields = []string{"color", "material", "description"}

// ListOptions selects and orders rolls.
type ListOptions struct {
	Archived bool
	// Field limits Query to one text field.
	Field string
	// Query is matched case-insensitively as a substring.
	Query      string
	SortBy     string
	Descending bool
}

// RollView is a roll with its stock evaluation.
type RollView struct {
	Roll      *roll.Roll  `json:"roll"`
	Threshold float64     `json:"threshold"`
	Status    roll.Status `json:"-"`
	Low       bool        `json:"low"`
}

// List returns copies of the active (or archived) rolls matching opts. The
// default order is remaining grams ascending.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]RollView, error) {
	field := strings.ToLower(strings.TrimSpace(opts.Field))
	if field != "" && !contains(FilterFields, field) {
		return nil, fmt.Errorf("%w: unknown filter field %q", ErrInvalidInput, opts.Field)
	}
	sortBy := strings.ToLower(strings.TrimSpace(opts.SortBy))
	if sortBy == "" {
		sortBy = SortRemaining
	}
	less, ok := sorters[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort column %q", ErrInvalidInput, opts.SortBy)
	}
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	source := doc.Active
	if opts.Archived {
		source = doc.Archived
	}

	out := make([]RollView, 0, len(source))
	for _, r := range source {
		if query != "" && !matches(r, field, query) {
			continue
		}
		threshold := doc.ThresholdFor(r.Material)
		out = append(out, RollView{
			Roll:      r.Clone(),
			Threshold: threshold,
			Status:    roll.StatusFor(r.RemainingGrams, threshold),
			Low:       r.RemainingGrams < threshold,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if opts.Descending {
			return less(out[j].Roll, out[i].Roll)
		}
		return less(out[i].Roll, out[j].Roll)
	})
	return out, nil
}

func matches(r *roll.Roll, field, query string) bool {
	var targets []string
	switch field {
	case "color":
		targets = []string{r.Color}
	case "material":
		targets = []string{r.Material}
	case "description":
		targets = []string{r.Description}
	default:
		targets = []string{r.Color, r.Material, r.Description}
	}
	for _, t := range targets {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

func byText(get func(*roll.Roll) string) func(a, b *roll.Roll) bool {
	return func(a, b *roll.Roll) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}
}

func byNumber(get func(*roll.Roll) float64) func(a, b *roll.Roll) bool {
	return func(a, b *roll.Roll) bool { return get(a) < get(b) }
}

var sorters = map[string]func(a, b *roll.Roll) bool{
	SortID:            byText(func(r *roll.Roll) string { return r.ID }),
	SortColor:         byText(func(r *roll.Roll) string { return r.Color }),
	SortMaterial:      byText(func(r *roll.Roll) string { return r.Material }),
	SortDescription:   byText(func(r *roll.Roll) string { return r.Description }),
	SortRemaining:     byNumber(func(r *roll.Roll) float64 { return r.RemainingGrams }),
	SortPricePerGram:  byNumber(func(r *roll.Roll) float64 { return r.PricePerGram }),
	SortInitialWeight: byNumber(func(r *roll.Roll) float64 { return r.InitialWeight }),
	SortInitialPrice:  byNumber(func(r *roll.Roll) float64 { return r.InitialPrice }),
	SortUsed:          byNumber(func(r *roll.Roll) float64 { return r.UsedGrams }),
	SortCreated: func(a, b *roll.Roll) bool {
		if a.CreatedAt.Valid() && b.CreatedAt.Valid() {
			return a.CreatedAt.Before(b.CreatedAt.Time)
		}
		return a.CreatedAt.String() < b.CreatedAt.String()
	},
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
