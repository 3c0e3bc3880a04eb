package use

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
	"tableflip.dev/spool/pkg/roll"
)

type Use struct {
	Service *app.Service
	ID      string
	// Grams is the amount as typed.
	Grams   string
	Project string
	JSON    bool
	Out     io.Writer
}

func (n *Use) Do(ctx context.Context) error {
	res, err := n.Service.UseFilamentText(ctx, n.ID, n.Grams, n.Project)
	if res.Roll == nil {
		return err
	}
	if n.JSON {
		if perr := printers.JSON(n.Out, res); perr != nil {
			return perr
		}
		return err
	}

	what := res.Roll.Label()
	if res.Event.Project != "" {
		what += " for " + res.Event.Project
	}
	_, _ = fmt.Fprintf(n.Out, "Used %s of %s (%s)\n", printers.Grams(res.Event.UsedGrams), what, printers.Money(res.Event.Cost))

	switch {
	case res.Archived:
		_, _ = color.New(color.Faint).Fprintf(n.Out, "%s is empty and was archived.\n", res.Roll.ID)
	case res.Low:
		threshold, terr := n.Service.ThresholdFor(ctx, res.Roll.Material)
		if terr != nil {
			return terr
		}
		alert := app.Alert{Roll: res.Roll, Remaining: res.Roll.RemainingGrams, Threshold: threshold}
		_, _ = printers.StatusColor(roll.StatusLow).Fprintf(n.Out, "Low stock: %s\n", alert.String())
	default:
		_, _ = fmt.Fprintf(n.Out, "%s left on %s\n", printers.Grams(res.Roll.RemainingGrams), res.Roll.ID)
	}
	return err
}
