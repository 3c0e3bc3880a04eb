// Package watch reports low stock whenever the data file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
	"tableflip.dev/spool/pkg/store"
)

type Watch struct {
	Service *app.Service
	Log     zerolog.Logger
	Out     io.Writer
}

func (n *Watch) Do(ctx context.Context) error {
	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if err := n.report(ctx, &pp); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Removed {
				_, _ = fmt.Fprintf(n.Out, "%s was removed\n", ev.Path)
				continue
			}
			if err := n.Service.Load(ctx); err != nil {
				if !errors.Is(err, store.ErrCorrupt) {
					return err
				}
				n.Log.Warn().Err(err).Str("path", ev.Path).Msg("reload")
				continue
			}
			n.Log.Debug().Str("path", ev.Path).Msg("reloaded")
			if err := n.report(ctx, &pp); err != nil {
				return err
			}
		}
	}
}

func (n *Watch) report(ctx context.Context, pp *printers.PrettyPrint) error {
	alerts, err := n.Service.LowStock(ctx)
	if err != nil {
		return err
	}
	pp.Title(time.Now().Format("15:04:05"))
	pp.Alerts(alerts)
	return nil
}
