package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/runner/list"
	"tableflip.dev/spool/pkg/runner/show"
)

func addList(topLevel *cobra.Command, ro *rootOptions) {
	lo := &options.ListOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   base.Wrap80("List rolls, the ones running out first."),
		Example: `
spool list
spool list --filter petg --filter-field material
spool list --sort price_per_gram --desc
spool list --archived
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			l := list.List{
				Service: s.Service,
				Options: lo.Options(),
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(l.Do(ctx))
		},
	}

	options.AddListArgs(cmd, lo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: base.Wrap80("Show every detail of one roll, active or archived."),
		Example: `
spool show r1760607000000
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: rollCompletions(ro, true),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			sh := show.Show{
				Service: s.Service,
				ID:      args[0],
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(sh.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addPhoto(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: base.Wrap80("Work with roll photos."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	export := &cobra.Command{
		Use:   "export <id> <file>",
		Short: base.Wrap80("Write the photo of a roll to a file."),
		Example: `
spool photo export r1760607000000 red-pla.jpg
`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return rollCompletions(ro, true)(cmd, args, toComplete)
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return err
			}
			p := show.Photo{
				Service: s.Service,
				ID:      args[0],
				File:    args[1],
				Out:     color.Output,
			}
			return p.Do(ctx)
		},
	}

	cmd.AddCommand(export)
	topLevel.AddCommand(cmd)
}

// rollCompletions completes roll ids, describing each with its label.
func rollCompletions(ro *rootOptions, archived bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		ctx := contextOf(cmd)
		s, err := ro.open(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, a := range []bool{false, true} {
			if a && !archived {
				continue
			}
			views, err := s.Service.List(ctx, app.ListOptions{Archived: a})
			if err != nil {
				continue
			}
			for _, v := range views {
				ids = append(ids, v.Roll.ID+"\t"+v.Roll.Label())
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
