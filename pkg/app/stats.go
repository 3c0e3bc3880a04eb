package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"tableflip.dev/spool/pkg/roll"
)

// Stats summarizes the whole inventory.
type Stats struct {
	RollsArchived int     `json:"rolls_archived"`
	RollsActive   int     `json:"rolls_active"`
	RollsTracked  int     `json:"rolls_tracked"`
	GramsUsed     float64 `json:"grams_used"`
	MoneyUsed     float64 `json:"money_used"`
}

// Stats counts rolls and totals what has been used from them, priced at each
// roll's price per gram.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return Stats{}, err
	}

	grams := decimal.Zero
	money := decimal.Zero
	for _, rolls := range [][]*roll.Roll{doc.Archived, doc.Active} {
		for _, r := range rolls {
			used := decimal.NewFromFloat(r.UsedGrams)
			grams = grams.Add(used)
			money = money.Add(used.Mul(decimal.NewFromFloat(r.PricePerGram)))
		}
	}
	return Stats{
		RollsArchived: len(doc.Archived),
		RollsActive:   len(doc.Active),
		RollsTracked:  len(doc.Archived) + len(doc.Active),
		GramsUsed:     grams.InexactFloat64(),
		MoneyUsed:     money.InexactFloat64(),
	}, nil
}

// Project is the usage attributed to one project.
type Project struct {
	Name string `json:"name"`
	roll.ProjectStats
}

// Projects lists projects sorted by name.
func (s *Service) Projects(ctx context.Context) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(doc.Projects))
	for name, p := range doc.Projects {
		if p == nil {
			continue
		}
		out = append(out, Project{Name: name, ProjectStats: *p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ProjectsCSVHeader is the first record of the project usage export.
var ProjectsCSVHeader = []string{"project", "grams", "cost", "events"}

// ExportProjectsCSV writes one record per project, sorted by name, with grams
// and cost to two decimals.
func (s *Service) ExportProjectsCSV(ctx context.Context, w io.Writer) error {
	projects, err := s.Projects(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ProjectsCSVHeader); err != nil {
		return fmt.Errorf("app: export projects: %w", err)
	}
	for _, p := range projects {
		record := []string{
			p.Name,
			strconv.FormatFloat(p.Grams, 'f', 2, 64),
			strconv.FormatFloat(p.Cost, 'f', 2, 64),
			strconv.Itoa(p.Events),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("app: export projects: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("app: export projects: %w", err)
	}
	return nil
}
