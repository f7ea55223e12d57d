// Package cli exposes the work-breakdown services as a cobra command tree.
package cli

import (
	"github.com/alexanderramin/wbsline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Nodes     service.NodeService
	Rollups   service.RollupService
	Baselines service.BaselineService
	Import    service.ImportService
}

// NewRootCmd creates the top-level "wbs" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "wbs",
		Short:         "Work-breakdown tracker with rollups and baseline approval",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newAddCmd(app),
		newUpdateCmd(app),
		newStatusCmd(app),
		newRemoveCmd(app),
		newRollupCmd(app),
		newBaselineCmd(app),
		newImportCmd(app),
	)

	return root
}
