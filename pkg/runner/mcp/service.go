// Package mcp provides the Model Context Protocol server for the inventory.
package mcp

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/roll"
	"tableflip.dev/spool/pkg/timeutil"
)

// Service adapts inventory operations for MCP clients.
type Service struct {
	App *app.Service
}

// RollDTO is a transport-friendly projection of a roll. Photos are reported
// by size only.
type RollDTO struct {
	ID             string  `json:"id"`
	Color          string  `json:"color"`
	Material       string  `json:"material"`
	Description    string  `json:"description"`
	RemainingGrams float64 `json:"remainingGrams"`
	UsedGrams      float64 `json:"usedGrams"`
	InitialWeight  float64 `json:"initialWeight"`
	InitialPrice   float64 `json:"initialPrice"`
	PricePerGram   float64 `json:"pricePerGram"`
	Created        string  `json:"created"`
	PhotoBytes     int     `json:"photoBytes,omitempty"`
	Archived       bool    `json:"archived"`
	Threshold      float64 `json:"threshold,omitempty"`
	Status         string  `json:"status,omitempty"`
	Low            bool    `json:"low,omitempty"`
}

// AddRollOptions are the fields of a new roll. Remaining defaults to the
// initial weight.
type AddRollOptions struct {
	Color         string   `json:"color"`
	Material      string   `json:"material"`
	Description   string   `json:"description"`
	InitialWeight float64  `json:"initial_weight"`
	InitialPrice  float64  `json:"initial_price"`
	Remaining     *float64 `json:"remaining"`
}

// NewService wraps a.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) app() (*app.Service, error) {
	if s.App == nil {
		return nil, errors.New("inventory is not configured")
	}
	return s.App, nil
}

// ListRolls returns the active or archived rolls matching opts.
func (s *Service) ListRolls(ctx context.Context, opts app.ListOptions) ([]RollDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	views, err := a.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]RollDTO, 0, len(views))
	for _, v := range views {
		dto := toDTO(v.Roll, !opts.Archived)
		if !opts.Archived {
			dto.Threshold = v.Threshold
			dto.Status = v.Status.String()
			dto.Low = v.Low
		}
		out = append(out, dto)
	}
	return out, nil
}

// RollByID returns one roll, active or archived.
func (s *Service) RollByID(ctx context.Context, id string) (*RollDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("id is required")
	}
	r, active, err := a.Roll(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r, active)
	if active {
		threshold, err := a.ThresholdFor(ctx, r.Material)
		if err != nil {
			return nil, err
		}
		dto.Threshold = threshold
		dto.Status = roll.StatusFor(r.RemainingGrams, threshold).String()
		dto.Low = r.RemainingGrams < threshold
	}
	return &dto, nil
}

// AddRoll creates a roll.
func (s *Service) AddRoll(ctx context.Context, opts AddRollOptions) (*RollDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	in := app.RollInput{
		Color:         opts.Color,
		Material:      opts.Material,
		Description:   opts.Description,
		InitialWeight: formatNumber(opts.InitialWeight),
		InitialPrice:  formatNumber(opts.InitialPrice),
	}
	if opts.Remaining != nil {
		in.Remaining = formatNumber(*opts.Remaining)
	}
	r, err := a.AddRoll(ctx, in)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r, true)
	return &dto, nil
}

// UseResult reports a recorded use.
type UseResult struct {
	Roll     RollDTO `json:"roll"`
	Grams    float64 `json:"usedGrams"`
	Cost     float64 `json:"cost"`
	Project  string  `json:"project,omitempty"`
	Archived bool    `json:"archived"`
	Low      bool    `json:"low"`
}

// UseFilament records grams taken from an active roll.
func (s *Service) UseFilament(ctx context.Context, id string, grams float64, project string) (*UseResult, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	res, err := a.UseFilament(ctx, id, grams, project)
	if err != nil {
		return nil, err
	}
	return &UseResult{
		Roll:     toDTO(res.Roll, !res.Archived),
		Grams:    res.Event.UsedGrams,
		Cost:     res.Event.Cost,
		Project:  res.Event.Project,
		Archived: res.Archived,
		Low:      res.Low,
	}, nil
}

// ArchiveRoll moves an active roll to the archive.
func (s *Service) ArchiveRoll(ctx context.Context, id string) (*RollDTO, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("id is required")
	}
	moved, err := a.ArchiveRolls(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(moved) == 0 {
		return nil, app.ErrArchived
	}
	dto := toDTO(moved[0], false)
	return &dto, nil
}

// Summary is the inventory totals with per-project usage.
type Summary struct {
	Stats    app.Stats     `json:"stats"`
	Projects []app.Project `json:"projects"`
}

// Summary collects stats and project totals.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	stats, err := a.Stats(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := a.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Stats: stats, Projects: projects}, nil
}

// Usage reports the events in a window such as "2w" or "all".
func (s *Service) Usage(ctx context.Context, window string) (*app.ReportResult, error) {
	a, err := s.app()
	if err != nil {
		return nil, err
	}
	since, until, _, err := timeutil.Bounds(window, time.Now())
	if err != nil {
		return nil, err
	}
	res, err := a.Usage(ctx, since, until)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func toDTO(r *roll.Roll, active bool) RollDTO {
	return RollDTO{
		ID:             r.ID,
		Color:          r.Color,
		Material:       r.Material,
		Description:    r.Description,
		RemainingGrams: r.RemainingGrams,
		UsedGrams:      r.UsedGrams,
		InitialWeight:  r.InitialWeight,
		InitialPrice:   r.InitialPrice,
		PricePerGram:   r.PricePerGram,
		Created:        r.CreatedAt.String(),
		PhotoBytes:     len(r.Photo),
		Archived:       !active,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
