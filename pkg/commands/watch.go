package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/spool/pkg/logging"
	"tableflip.dev/spool/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: base.Wrap80("Print the low-stock alerts again every time the inventory file changes. Stop with Ctrl-C."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return err
			}
			w := watch.Watch{
				Service: s.Service,
				Log:     logging.Component(s.Log, "watch"),
				Out:     color.Output,
			}
			return w.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
