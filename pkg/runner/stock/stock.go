// Package stock runs the low-stock threshold and alert commands.
package stock

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

// Thresholds lists the level in effect for every known material.
type Thresholds struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Thresholds) Do(ctx context.Context) error {
	ts, err := n.Service.Thresholds(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, ts)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Low-stock thresholds")
	pp.Thresholds(ts)
	return nil
}

type Set struct {
	Service  *app.Service
	Material string
	Grams    string
	JSON     bool
	Out      io.Writer
}

func (n *Set) Do(ctx context.Context) error {
	grams, err := n.Service.SetThreshold(ctx, n.Material, n.Grams)
	if grams == 0 {
		return err
	}
	if n.JSON {
		if perr := printers.JSON(n.Out, app.Threshold{Material: n.Material, Grams: grams}); perr != nil {
			return perr
		}
		return err
	}
	_, _ = fmt.Fprintf(n.Out, "%s rolls are low below %s\n", n.Material, printers.Grams(grams))
	return err
}

type Clear struct {
	Service  *app.Service
	Material string
	JSON     bool
	Out      io.Writer
}

func (n *Clear) Do(ctx context.Context) error {
	removed, err := n.Service.ClearThreshold(ctx, n.Material)
	if err != nil && !removed {
		return err
	}
	if n.JSON {
		if perr := printers.JSON(n.Out, map[string]any{"material": n.Material, "removed": removed}); perr != nil {
			return perr
		}
		return err
	}
	if !removed {
		_, _ = fmt.Fprintf(n.Out, "%s has no threshold set\n", n.Material)
		return nil
	}
	_, _ = fmt.Fprintf(n.Out, "%s uses the default threshold again\n", n.Material)
	return err
}

// Alerts lists the active rolls below their threshold.
type Alerts struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Alerts) Do(ctx context.Context) error {
	alerts, err := n.Service.LowStock(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		messages := make([]string, 0, len(alerts))
		for _, a := range alerts {
			messages = append(messages, a.String())
		}
		return printers.JSON(n.Out, map[string]any{"alerts": alerts, "messages": messages})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Alerts(alerts)
	return nil
}
