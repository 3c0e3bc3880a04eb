package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uitable"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
	"tableflip.dev/spool/pkg/store"
)

type Info struct {
	Config  *store.FileConfig
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

type details struct {
	ConfigEnv string            `json:"config_env,omitempty"`
	Config    *store.FileConfig `json:"config"`
	Exists    bool              `json:"exists"`
	Bytes     int64             `json:"bytes"`
	Corrupt   string            `json:"corrupt,omitempty"`
	Active    int               `json:"active"`
	Archived  int               `json:"archived"`
	Events    int               `json:"events"`
	Projects  int               `json:"projects"`
}

func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		return errors.New("no configuration loaded")
	}
	d := details{
		ConfigEnv: os.Getenv("SPOOL_CONFIG_PATH"),
		Config:    n.Config,
	}
	if st, err := os.Stat(n.Config.Path); err == nil {
		d.Exists = true
		d.Bytes = st.Size()
	}
	if err := n.Service.Load(ctx); err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return err
		}
		d.Corrupt = err.Error()
	}
	doc, err := n.Service.Document(ctx)
	if err != nil {
		return err
	}
	d.Active = len(doc.Active)
	d.Archived = len(doc.Archived)
	d.Events = len(doc.UsageEvents)
	d.Projects = len(doc.Projects)

	if n.JSON {
		return printers.JSON(n.Out, d)
	}

	env := d.ConfigEnv
	if env == "" {
		env = "not set"
	}
	source := n.Config.Source
	if source == "" {
		source = "none, using defaults"
	}
	file := "missing, starts empty"
	if d.Exists {
		file = fmt.Sprintf("%d bytes", d.Bytes)
	}
	if d.Corrupt != "" {
		file = "unreadable: " + d.Corrupt
	}
	snapshots := "disabled"
	if n.Config.Snapshots > 0 {
		snapshots = fmt.Sprintf("%d kept in %s", n.Config.Snapshots, store.SnapshotDir(n.Config.Path))
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("SPOOL_CONFIG_PATH:", env)
	tbl.AddRow("Config file:", source)
	tbl.AddRow("Data file:", n.Config.Path)
	tbl.AddRow("", file)
	tbl.AddRow("Snapshots:", snapshots)
	tbl.AddRow("Export:", n.Config.Export)
	tbl.AddRow("Log level:", n.Config.Level)
	tbl.AddRow("Rolls:", fmt.Sprintf("%d active, %d archived", d.Active, d.Archived))
	tbl.AddRow("Usage events:", d.Events)
	tbl.AddRow("Projects:", d.Projects)
	_, _ = fmt.Fprintln(n.Out, tbl)
	return nil
}
