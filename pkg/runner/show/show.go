package show

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type Show struct {
	Service *app.Service
	ID      string
	JSON    bool
	Out     io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	r, active, err := n.Service.Roll(ctx, n.ID)
	if err != nil {
		return err
	}
	threshold, err := n.Service.ThresholdFor(ctx, r.Material)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]any{
			"roll":      r,
			"active":    active,
			"threshold": threshold,
		})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Roll(r, active, threshold)
	return nil
}

// Photo writes the photo of a roll to a file.
type Photo struct {
	Service *app.Service
	ID      string
	File    string
	Out     io.Writer
}

func (n *Photo) Do(ctx context.Context) error {
	r, _, err := n.Service.Roll(ctx, n.ID)
	if err != nil {
		return err
	}
	if len(r.Photo) == 0 {
		return errors.New("roll has no photo")
	}
	if err := os.WriteFile(n.File, r.Photo, 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(n.Out, "Wrote %d bytes to %s\n", len(r.Photo), n.File)
	return err
}
