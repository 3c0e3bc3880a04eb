package add

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type Add struct {
	Service *app.Service
	Input   app.RollInput
	// PhotoFile is read into Input.Photo when set.
	PhotoFile string
	JSON      bool
	Out       io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.PhotoFile != "" {
		b, err := os.ReadFile(n.PhotoFile)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		n.Input.Photo = b
	}

	r, err := n.Service.AddRoll(ctx, n.Input)
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
	pp.Title("Added " + r.Label())
	pp.Roll(r, true, threshold)
	return err
}
