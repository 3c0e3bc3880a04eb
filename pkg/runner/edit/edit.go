package edit

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type Edit struct {
	Service   *app.Service
	ID        string
	Edit      app.RollEdit
	PhotoFile string
	JSON      bool
	Out       io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.PhotoFile != "" {
		b, err := os.ReadFile(n.PhotoFile)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		n.Edit.Photo = b
	}

	r, err := n.Service.EditRoll(ctx, n.ID, n.Edit)
	if r == nil {
		return err
	}
	if n.JSON {
		if perr := printers.JSON(n.Out, r); perr != nil {
			return perr
		}
		return err
	}
	threshold, terr := n.Service.ThresholdFor(ctx, r.Material)
	if terr != nil {
		return terr
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Updated " + r.Label())
	pp.Roll(r, true, threshold)
	return err
}
