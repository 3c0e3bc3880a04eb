// Package stats runs the inventory summary and per-project usage commands.
package stats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/printers"
)

type Stats struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	s, err := n.Service.Stats(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, s)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Filament stats")
	pp.Stats(s)
	return nil
}

// Projects prints per-project usage, or writes it as CSV to Export. An
// Export of "-" writes the CSV to Out.
type Projects struct {
	Service *app.Service
	Export  string
	JSON    bool
	Out     io.Writer
}

func (n *Projects) Do(ctx context.Context) error {
	if n.Export != "" {
		return n.export(ctx)
	}
	projects, err := n.Service.Projects(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, projects)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Project usage")
	pp.Projects(projects)
	return nil
}

func (n *Projects) export(ctx context.Context) error {
	if n.Export == "-" {
		return n.Service.ExportProjectsCSV(ctx, n.Out)
	}
	var buf bytes.Buffer
	if err := n.Service.ExportProjectsCSV(ctx, &buf); err != nil {
		return err
	}
	if dir := filepath.Dir(n.Export); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(n.Export, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]string{"exported": n.Export})
	}
	_, err := fmt.Fprintf(n.Out, "Exported project usage to %s\n", n.Export)
	return err
}
