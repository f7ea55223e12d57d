package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import projects and their hierarchies from a JSON file",
		Long: "Import projects and their hierarchies from a JSON file. Entities refer to " +
			"their parents by ref; the whole file is validated first and written in a " +
			"single transaction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d project(s): %d final products, %d phases, %d deliverables, %d work packages\n",
				len(res.ProjectIDs), res.FinalProductCount, res.PhaseCount, res.DeliverableCount, res.WorkPackageCount)
			for _, id := range res.ProjectIDs {
				fmt.Fprintf(out, "  %s\n", formatter.Dim(id))
			}
			return nil
		},
	}
}
