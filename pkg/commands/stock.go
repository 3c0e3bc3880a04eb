package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/stock"
)

func addThresholds(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "thresholds",
		Aliases: []string{"threshold"},
		Short:   base.Wrap80("List the low-stock threshold of every material in use. Materials without one use 300 g."),
		Example: `
spool thresholds
spool thresholds set PETG 250
spool thresholds clear PETG
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			t := stock.Thresholds{
				Service: s.Service,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(t.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	addThresholdSet(cmd, ro)
	addThresholdClear(cmd, ro)

	topLevel.AddCommand(cmd)
}

func addThresholdSet(parent *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "set <material> <grams>",
		Short: "Set the low-stock threshold of a material.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			set := stock.Set{
				Service:  s.Service,
				Material: args[0],
				Grams:    args[1],
				JSON:     output.JSON,
				Out:      color.Output,
			}
			return output.HandleError(set.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addThresholdClear(parent *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "clear <material>",
		Aliases: []string{"rm"},
		Short:   "Go back to the default threshold for a material.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			c := stock.Clear{
				Service:  s.Service,
				Material: args[0],
				JSON:     output.JSON,
				Out:      color.Output,
			}
			return output.HandleError(c.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addAlerts(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"low"},
		Short:   base.Wrap80("List the active rolls with less filament left than their material's threshold."),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			a := stock.Alerts{
				Service: s.Service,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(a.Do(ctx))
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
