package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/report"
)

func addReport(topLevel *cobra.Command, ro *rootOptions) {
	window := &options.WindowOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: base.Wrap80("List the filament used in a time window, grouped by project."),
		Example: `
spool report
spool report --last 3d
spool report --last 1w2d
spool report --last all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			r := report.Report{
				Service: s.Service,
				Window:  window.Last,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(r.Do(ctx))
		},
	}

	options.AddWindowArgs(cmd, window, "")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addChart(topLevel *cobra.Command, ro *rootOptions) {
	var (
		width int
		days  bool
	)
	window := &options.WindowOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: base.Wrap80("Draw the filament used per material, and optionally per day, as bars."),
		Example: `
spool chart
spool chart --last 2w --days
spool chart --last all --width 60
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			c := report.Chart{
				Service: s.Service,
				Window:  window.Last,
				Width:   width,
				Days:    days,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(c.Do(ctx))
		},
	}

	cmd.Flags().IntVar(&width, "width", 40, "Width of the longest bar.")
	cmd.Flags().BoolVar(&days, "days", false, "Also chart the usage of each day.")
	options.AddWindowArgs(cmd, window, "")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addCalendar(topLevel *cobra.Command, ro *rootOptions) {
	var year bool

	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: base.Wrap80("Show a month (or a year) with the days filament was used in bold."),
		Example: `
spool calendar
spool calendar 2026-09
spool calendar --year
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return err
			}
			c := report.Calendar{
				Service: s.Service,
				Year:    year,
				Out:     color.Output,
			}
			if len(args) > 0 {
				c.Month = args[0]
			}
			return c.Do(ctx)
		},
	}

	cmd.Flags().BoolVar(&year, "year", false, "Show every month of the year.")

	topLevel.AddCommand(cmd)
}
