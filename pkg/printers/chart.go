package printers

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/spool/pkg/app"
)

// BarChart draws usage aggregates as horizontal text bars.
type BarChart struct {
	// Width is the length of the longest bar. Zero means 40.
	Width int
	// Days includes the per-day series.
	Days bool
}

var _ app.ChartRenderer = (*BarChart)(nil)

const labelWidth = 14

// RenderChart implements app.ChartRenderer.
func (c *BarChart) RenderChart(w io.Writer, a app.Aggregates) error {
	if err := c.series(w, "Filament used by material", a.Materials); err != nil {
		return err
	}
	if !c.Days {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return c.series(w, "Filament used per day", a.Days)
}

func (c *BarChart) series(w io.Writer, heading string, totals []app.Total) error {
	if _, err := title.Fprintln(w, heading); err != nil {
		return err
	}
	if len(totals) == 0 {
		_, err := faint.Fprintln(w, " no usage")
		return err
	}
	width := c.Width
	if width <= 0 {
		width = 40
	}
	peak := 0.0
	for _, t := range totals {
		peak = math.Max(peak, t.Grams)
	}
	for _, t := range totals {
		n := 0
		if peak > 0 {
			n = int(math.Round(t.Grams / peak * float64(width)))
		}
		if n == 0 && t.Grams > 0 {
			n = 1
		}
		label := padding.String(truncate.StringWithTail(t.Label, labelWidth, "…"), labelWidth)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", label, strings.Repeat("█", n), Grams(t.Grams)); err != nil {
			return err
		}
	}
	return nil
}
