package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/roll"
)

// DescriptionWidth bounds the description column of roll tables.
const DescriptionWidth = 32

// PrettyPrint renders inventory data for people.
type PrettyPrint struct {
	// Out is color.Output when nil.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint, color.Italic)
	title = color.New(color.Bold, color.Underline)
)

// Title prints a heading.
func (pp *PrettyPrint) Title(t string) {
	_, _ = title.Fprintln(pp.out(), t)
}

// None prints the placeholder for an empty listing.
func (pp *PrettyPrint) None(what string) {
	_, _ = faint.Fprintf(pp.out(), " no %s\n", what)
}

// StatusColor is the color of a stock status.
func StatusColor(s roll.Status) *color.Color {
	switch s {
	case roll.StatusLow:
		return color.New(color.FgRed, color.Bold)
	case roll.StatusWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// Rolls prints a table of rolls with their stock status.
func (pp *PrettyPrint) Rolls(views []app.RollView) {
	if len(views) == 0 {
		pp.None("rolls")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(
		bold.Sprint("ID"), "", bold.Sprint("Color"), bold.Sprint("Material"),
		bold.Sprint("Remaining"), bold.Sprint("Description"), bold.Sprint("$/g"), bold.Sprint("Status"),
	)
	for _, v := range views {
		r := v.Roll
		tbl.AddRow(
			faint.Sprint(r.ID),
			Swatch(r.Color),
			r.Color,
			r.Material,
			fmt.Sprintf("%.1f", r.RemainingGrams),
			truncate.StringWithTail(r.Description, DescriptionWidth, "…"),
			PerGram(r.PricePerGram),
			StatusColor(v.Status).Sprint(v.Status.String()),
		)
	}
	tbl.RightAlign(4)
	tbl.RightAlign(6)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Roll prints every field of one roll.
func (pp *PrettyPrint) Roll(r *roll.Roll, active bool, threshold float64) {
	state := "active"
	if !active {
		state = "archived"
	}
	status := roll.StatusFor(r.RemainingGrams, threshold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), r.ID)
	tbl.AddRow(bold.Sprint("State"), state)
	tbl.AddRow(bold.Sprint("Color"), strings.TrimSpace(Swatch(r.Color)+" "+r.Color))
	tbl.AddRow(bold.Sprint("Material"), r.Material)
	tbl.AddRow(bold.Sprint("Description"), r.Description)
	tbl.AddRow(bold.Sprint("Remaining"), Grams(r.RemainingGrams))
	tbl.AddRow(bold.Sprint("Used"), Grams(r.UsedGrams))
	tbl.AddRow(bold.Sprint("Initial weight"), Grams(r.InitialWeight))
	tbl.AddRow(bold.Sprint("Initial price"), Money(r.InitialPrice))
	tbl.AddRow(bold.Sprint("Price per gram"), PerGram(r.PricePerGram))
	tbl.AddRow(bold.Sprint("Threshold"), Grams(threshold))
	if active {
		tbl.AddRow(bold.Sprint("Status"), StatusColor(status).Sprint(status.String()))
	}
	photo := "none"
	if len(r.Photo) > 0 {
		photo = fmt.Sprintf("%d bytes", len(r.Photo))
	}
	tbl.AddRow(bold.Sprint("Photo"), photo)
	tbl.AddRow(bold.Sprint("Created"), r.CreatedAt.String())
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Stats prints the inventory summary.
func (pp *PrettyPrint) Stats(s app.Stats) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Rolls used (archived):", s.RollsArchived)
	tbl.AddRow("Rolls left (active):", s.RollsActive)
	tbl.AddRow("Total filament used:", fmt.Sprintf("%.1f g", s.GramsUsed))
	tbl.AddRow("Total rolls tracked:", s.RollsTracked)
	tbl.AddRow("Total money used:", Money(s.MoneyUsed))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Projects prints the per-project totals.
func (pp *PrettyPrint) Projects(projects []app.Project) {
	if len(projects) == 0 {
		pp.None("projects")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Project"), bold.Sprint("Grams"), bold.Sprint("Cost"), bold.Sprint("Events"))
	for _, p := range projects {
		tbl.AddRow(p.Name, fmt.Sprintf("%.1f", p.Grams), Money(p.Cost), p.Events)
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Alerts prints the low-stock alerts.
func (pp *PrettyPrint) Alerts(alerts []app.Alert) {
	if len(alerts) == 0 {
		_, _ = color.New(color.FgGreen).Fprintln(pp.out(), "All rolls are above their thresholds.")
		return
	}
	low := StatusColor(roll.StatusLow)
	_, _ = low.Fprintf(pp.out(), "%d roll(s) low on filament\n", len(alerts))
	for _, a := range alerts {
		_, _ = fmt.Fprintf(pp.out(), "  %s %s\n", faint.Sprint(a.Roll.ID), a.String())
	}
}

// Thresholds prints the low-stock level of each material.
func (pp *PrettyPrint) Thresholds(ts []app.Threshold) {
	if len(ts) == 0 {
		pp.None("materials")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Material"), bold.Sprint("Threshold"), "")
	for _, t := range ts {
		note := ""
		if t.Default {
			note = faint.Sprint("default")
		}
		tbl.AddRow(t.Material, Grams(t.Grams), note)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
