package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/commands/options"
	"tableflip.dev/spool/pkg/prompt"
	"tableflip.dev/spool/pkg/runner/add"
	"tableflip.dev/spool/pkg/runner/edit"
)

func addAdd(topLevel *cobra.Command, ro *rootOptions) {
	rollo := &options.RollOptions{}
	output := &options.OutputOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: base.Wrap80("Add a new roll. The price per gram is worked out from the weight and price."),
		Example: `
spool add --color Red --material PLA --weight 1000 --price 19.99
spool add --color "Galaxy Black" --material PETG --weight 1000 --price 24 --remaining 640
spool add -i
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !i.Interactive {
				return nil
			}
			p := &prompt.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
			return p.Flags(cmd.Flags(),
				prompt.Field{Flag: "color", Label: "Color"},
				prompt.Field{Flag: "material", Label: "Material"},
				prompt.Field{Flag: "weight", Label: "Weight (g)", Kind: prompt.KindAmount},
				prompt.Field{Flag: "price", Label: "Price", Kind: prompt.KindAmount},
				prompt.Field{Flag: "description", Label: "Description"},
			)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			a := add.Add{
				Service:   s.Service,
				Input:     rollo.Input(),
				PhotoFile: rollo.PhotoFile,
				JSON:      output.JSON,
				Out:       color.Output,
			}
			return output.HandleError(a.Do(ctx))
		},
	}

	options.AddRollArgs(cmd, rollo)
	options.AddOutputArg(cmd, output)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, ro *rootOptions) {
	rollo := &options.RollOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: base.Wrap80("Change the fields of an active roll. Only the flags given are changed."),
		Example: `
spool edit r1760607000000 --remaining 410
spool edit r1760607000000 --price 17.50 --description "bought on sale"
spool edit r1760607000000 --clear-photo
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: rollCompletions(ro, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			e := edit.Edit{
				Service:   s.Service,
				ID:        args[0],
				Edit:      rollo.Edit(cmd),
				PhotoFile: rollo.PhotoFile,
				JSON:      output.JSON,
				Out:       color.Output,
			}
			return output.HandleError(e.Do(ctx))
		},
	}

	options.AddRollArgs(cmd, rollo)
	options.AddClearPhotoArg(cmd, rollo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
