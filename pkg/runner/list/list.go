package list

import (
	"context"
	"io"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type List struct {
	Service *app.Service
	Options app.ListOptions
	JSON    bool
	Out     io.Writer
}

func (n *List) Do(ctx context.Context) error {
	views, err := n.Service.List(ctx, n.Options)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, views)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.Options.Archived {
		pp.Title("Archived rolls")
	} else {
		pp.Title("Active rolls")
	}
	pp.Rolls(views)
	return nil
}
