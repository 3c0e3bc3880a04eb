package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/prompt"
	"tableflip.dev/spool/pkg/runner/archive"
	"tableflip.dev/spool/pkg/runner/use"
)

func addUse(topLevel *cobra.Command, ro *rootOptions) {
	var project string
	output := &options.OutputOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "use <id> <grams>",
		Short: base.Wrap80("Record filament used from a roll. Empty rolls are archived."),
		Example: `
spool use r1760607000000 42.5 --project "Desk organizer"
spool use r1760607000000 12
spool use -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return cobra.MaximumNArgs(2)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return rollCompletions(ro, false)(cmd, args, toComplete)
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}

			var id, grams string
			if len(args) > 0 {
				id = args[0]
			}
			if len(args) > 1 {
				grams = args[1]
			}
			if i.Interactive {
				p := &prompt.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
				if id == "" {
					views, err := s.Service.List(ctx, app.ListOptions{})
					if err != nil {
						return err
					}
					if id, err = p.ChooseRoll("Roll", views); err != nil {
						if errors.Is(err, prompt.ErrNoChoices) {
							return errors.New("no active rolls, add one first")
						}
						return err
					}
				}
				if grams == "" {
					if grams, err = p.Positive("Grams used", ""); err != nil {
						return err
					}
				}
				if !cmd.Flags().Changed("project") {
					projects, err := s.Service.Projects(ctx)
					if err != nil {
						return err
					}
					names := make([]string, 0, len(projects))
					for _, pr := range projects {
						names = append(names, pr.Name)
					}
					if project, err = p.ChooseProject(names); err != nil {
						return err
					}
				}
			}

			u := use.Use{
				Service: s.Service,
				ID:      id,
				Grams:   grams,
				Project: project,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(u.Do(ctx))
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "",
		"Project the filament was used for.")
	_ = cmd.RegisterFlagCompletionFunc("project", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return projectCompletions(cmd, ro), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, output)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addArchive(topLevel *cobra.Command, ro *rootOptions) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "archive <id>...",
		Short: base.Wrap80("Move rolls to the archive without using them up."),
		Example: `
spool archive r1760607000000
spool archive r1760607000000 r1760607000001
`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: rollCompletions(ro, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			a := archive.Archive{
				Service: s.Service,
				IDs:     args,
				JSON:    output.JSON,
				Out:     color.Output,
			}
			return output.HandleError(a.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func projectCompletions(cmd *cobra.Command, ro *rootOptions) []string {
	ctx := contextOf(cmd)
	s, err := ro.open(ctx)
	if err != nil {
		return nil
	}
	projects, err := s.Service.Projects(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return names
}
