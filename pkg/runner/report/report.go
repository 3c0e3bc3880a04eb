// Package report runs the usage report, chart and calendar commands.
package report

import (
	"context"
	"io"
	"time"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
	"tableflip.dev/spool/pkg/timeutil"
)

// Report lists the usage of a recent window grouped by project.
type Report struct {
	Service *app.Service
	// Window is parsed by timeutil.ParseWindow.
	Window string
	JSON   bool
	Out    io.Writer
	// Now is time.Now when nil.
	Now func() time.Time
}

func (n *Report) Do(ctx context.Context) error {
	since, until, label, err := timeutil.Bounds(n.Window, now(n.Now))
	if err != nil {
		return err
	}
	result, err := n.Service.Usage(ctx, since, until)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, result)
	}
	if label == timeutil.All {
		label = "all time"
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Report(result, label)
	return nil
}

// Chart draws grams used per material, and per day when Days is set.
type Chart struct {
	Service *app.Service
	Window  string
	Width   int
	Days    bool
	JSON    bool
	Out     io.Writer
	Now     func() time.Time
}

func (n *Chart) Do(ctx context.Context) error {
	since, until, _, err := timeutil.Bounds(n.Window, now(n.Now))
	if err != nil {
		return err
	}
	if n.JSON {
		a, err := n.Service.Aggregates(ctx, since, until)
		if err != nil {
			return err
		}
		return printers.JSON(n.Out, a)
	}
	return n.Service.Chart(ctx, n.Out, &printers.BarChart{Width: n.Width, Days: n.Days}, since, until)
}

// Calendar marks the days filament was used in a month or a whole year.
type Calendar struct {
	Service *app.Service
	// Month is YYYY-MM, the current month when empty.
	Month string
	Year  bool
	Out   io.Writer
	Now   func() time.Time
}

func (n *Calendar) Do(ctx context.Context) error {
	month, err := timeutil.MonthOf(n.Month, now(n.Now), time.UTC)
	if err != nil {
		return err
	}
	a, err := n.Service.Aggregates(ctx, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.Year {
		pp.CalendarYear(month, a.Days)
		return nil
	}
	pp.Calendar(month, a.Days)
	return nil
}

func now(f func() time.Time) time.Time {
	if f != nil {
		return f()
	}
	return time.Now()
}
