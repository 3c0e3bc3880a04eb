// Package history lists and restores earlier versions of the data file.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
	"tableflip.dev/spool/pkg/store"
)

var errDisabled = errors.New("snapshots are disabled, set snapshots in .spool.yaml")

type Snapshot struct {
	Key  string `json:"key"`
	Time string `json:"time,omitempty"`
	Size int    `json:"size"`
}

// History lists the kept snapshots, newest first.
type History struct {
	Store *store.Store
	JSON  bool
	Out   io.Writer
}

func (n *History) Do(ctx context.Context) error {
	snaps := n.Store.Snapshots()
	if snaps == nil {
		return errDisabled
	}
	keys := snaps.Keys()
	out := make([]Snapshot, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		s := Snapshot{Key: keys[i]}
		if t, ok := snaps.Time(keys[i]); ok {
			s.Time = t.Local().Format("2006-01-02 15:04:05")
		}
		if b, err := snaps.Read(keys[i]); err == nil {
			s.Size = len(b)
		}
		out = append(out, s)
	}
	if n.JSON {
		return printers.JSON(n.Out, out)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Snapshots of " + n.Store.Path())
	if len(out) == 0 {
		pp.None("snapshots")
		return nil
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("KEY", "SAVED", "BYTES")
	for _, s := range out {
		tbl.AddRow(s.Key, s.Time, s.Size)
	}
	_, _ = fmt.Fprintln(n.Out, tbl)
	return nil
}

// Restore puts a snapshot back in place of the data file and reloads the
// service from it.
type Restore struct {
	Store   *store.Store
	Service *app.Service
	Key     string
	Out     io.Writer
}

func (n *Restore) Do(ctx context.Context) error {
	if n.Store.Snapshots() == nil {
		return errDisabled
	}
	doc, err := n.Store.Restore(ctx, n.Key)
	if err != nil {
		return err
	}
	if n.Service != nil {
		if err := n.Service.Load(ctx); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(n.Out, "Restored %s: %d active, %d archived rolls\n", n.Key, len(doc.Active), len(doc.Archived))
	return err
}
