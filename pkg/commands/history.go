package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/history"
)

func addHistory(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: base.Wrap80("List the saved snapshots of the inventory file, newest first."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			h := history.History{
				Store: s.Store,
				JSON:  output.JSON,
				Out:   color.Output,
			}
			return output.HandleError(h.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addRestore(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "restore <snapshot>",
		Short: base.Wrap80("Replace the inventory with a snapshot. The current file is kept as a snapshot first."),
		Example: `
spool history
spool restore 20261016T091500.000000000Z
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			s, err := ro.open(contextOf(cmd))
			if err != nil || s.Store.Snapshots() == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return s.Store.Snapshots().Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return err
			}
			r := history.Restore{
				Store:   s.Store,
				Service: s.Service,
				Key:     args[0],
				Out:     color.Output,
			}
			return r.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
