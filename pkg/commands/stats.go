package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/stats"
	"tableflip.dev/spool/pkg/store"
)

func addStats(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: base.Wrap80("Summarize the inventory: rolls used and left, filament used and what it cost."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			st := stats.Stats{
				Service: s.Service,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(st.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addProjects(topLevel *cobra.Command, ro *rootOptions) {
	var export string
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: base.Wrap80("Show the filament used and its cost per project, or export it as CSV."),
		Example: `
spool projects
spool projects --export
spool projects --export=usage.csv
spool projects --export=-
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			target := export
			if cmd.Flags().Changed("export") && target == store.DefaultExport {
				target = s.Config.Export
			}
			if target != "" && target != "-" {
				if target, err = store.ExpandPath(target); err != nil {
					return output.HandleError(err)
				}
			}
			p := stats.Projects{
				Service: s.Service,
				Export:  target,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(p.Do(ctx))
		},
	}

	cmd.Flags().StringVar(&export, "export", "",
		"Write the project usage as CSV to this file, the configured export file when no value is given, or - for stdout.")
	cmd.Flags().Lookup("export").NoOptDefVal = store.DefaultExport
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
