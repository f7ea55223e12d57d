package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/service"
	"github.com/spf13/cobra"
)

func newRollupCmd(app *App) *cobra.Command {
	var project string
	var version int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rollup LEVEL ID",
		Short: "Show completion, timeline, budget and effort for any node",
		Long: "Show completion, timeline, budget and effort for any node. With --version " +
			"the figures come from the stored baseline of --project instead of live data.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			level, err := domain.ParseLevel(args[0])
			if err != nil {
				return err
			}
			projectID, err := resolveProjectForFlag(ctx, app, project)
			if err != nil {
				return err
			}
			id := args[1]
			if level == domain.LevelProject {
				if id, err = resolveProjectID(ctx, app, id); err != nil {
					return err
				}
				if projectID == "" {
					projectID = id
				}
			}

			s, err := app.Rollups.Summary(ctx, service.RollupQuery{
				Level:     level,
				ID:        id,
				ProjectID: projectID,
				Version:   version,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			source := "live"
			if version != service.LiveVersion {
				source = fmt.Sprintf("baseline v%d", version)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNodeSummary(s, source))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project scope (required with --version)")
	cmd.Flags().IntVar(&version, "version", service.LiveVersion, "Baseline version to read instead of live data")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the summary as JSON")

	return cmd
}
