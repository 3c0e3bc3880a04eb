package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/logging"
	"tableflip.dev/spool/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server on stdin and stdout that exposes the rolls, usage,
thresholds and project statistics as tools and resources.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := contextOf(cmd)
			s, err := ro.open(ctx)
			if err != nil {
				return err
			}
			runner := mcp.Runner{
				Service: s.Service,
				Name:    "spool",
				Version: version,
				Log:     logging.Component(s.Log, "mcp"),
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
			}
			return runner.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
