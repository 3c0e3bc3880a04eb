package archive

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type Archive struct {
	Service *app.Service
	IDs     []string
	JSON    bool
	Out     io.Writer
}

func (n *Archive) Do(ctx context.Context) error {
	moved, err := n.Service.ArchiveRolls(ctx, n.IDs...)
	if n.JSON {
		if perr := printers.JSON(n.Out, map[string]any{"archived": moved}); perr != nil {
			return perr
		}
		return err
	}
	if len(moved) == 0 && err == nil {
		_, _ = fmt.Fprintln(n.Out, "Nothing to archive, the rolls were already archived.")
		return nil
	}
	for _, r := range moved {
		_, _ = fmt.Fprintf(n.Out, "Archived %s (%s), %s left\n", r.Label(), r.ID, printers.Grams(r.RemainingGrams))
	}
	return err
}
