package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	// Set by the release build.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "spool",
		Short: base.Wrap80("Track 3D printer filament rolls, what they cost and where they went."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addRootArgs(cmd, ro)

	addCommands(cmd, ro)
	return cmd
}

func addCommands(topLevel *cobra.Command, ro *rootOptions) {
	addList(topLevel, ro)
	addShow(topLevel, ro)
	addAdd(topLevel, ro)
	addEdit(topLevel, ro)
	addArchive(topLevel, ro)
	addUse(topLevel, ro)
	addThresholds(topLevel, ro)
	addAlerts(topLevel, ro)
	addStats(topLevel, ro)
	addProjects(topLevel, ro)
	addReport(topLevel, ro)
	addChart(topLevel, ro)
	addCalendar(topLevel, ro)
	addPhoto(topLevel, ro)
	addHistory(topLevel, ro)
	addRestore(topLevel, ro)
	addWatch(topLevel, ro)
	addInfo(topLevel, ro)
	addMCP(topLevel, ro)
	addVersion(topLevel)
	addCompletions(topLevel)
}
