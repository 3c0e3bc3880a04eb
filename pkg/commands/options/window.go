package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Last string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions, def string) {
	if def == "" {
		def = timeutil.DefaultWindow
	}
	cmd.Flags().StringVar(&o.Last, "last", def,
		`Time window to include, example: --last=3d, --last=1w2d or --last=all.`)
}
