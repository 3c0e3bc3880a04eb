package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where the inventory and its config are read from.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			i := info.Info{
				Config:  s.Config,
				Service: s.Service,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(i.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
