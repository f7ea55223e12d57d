package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectDeleteCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, owner, unit, status, vendor string
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				Name:         name,
				Owner:        owner,
				BusinessUnit: unit,
				Status:       domain.ProjectStatus(status),
				Vendor:       domain.Vendor{Name: vendor},
				Budget:       figures.budget(),
				Resources:    figures.resources(),
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&owner, "owner", "", "Accountable owner")
	cmd.Flags().StringVar(&unit, "unit", "", "Business unit")
	cmd.Flags().StringVar(&status, "status", "", "Status (planned|active|on_hold|closed)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Vendor name")
	figures.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a project with its hierarchy and rollup figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var p *domain.Project
			if version == service.LiveVersion {
				p, err = app.Projects.GetByID(ctx, projectID)
			} else {
				p, err = snapshotProject(cmd, app, projectID, version)
			}
			if err != nil {
				return err
			}

			report, err := app.Rollups.Report(ctx, projectID, version)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectReport(p, report))
			if version == service.LiveVersion && p.PendingChanges != nil {
				fmt.Fprint(cmd.OutOrStdout(), "\n"+formatter.FormatProposal(p))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&version, "version", service.LiveVersion, "Show a stored baseline version instead of live data")

	return cmd
}

func snapshotProject(cmd *cobra.Command, app *App, projectID string, version int) (*domain.Project, error) {
	snap, err := app.Baselines.Snapshot(cmd.Context(), projectID, version)
	if err != nil {
		return nil, err
	}
	p := snap.Project()
	if p == nil {
		return nil, fmt.Errorf("baseline v%d of project %s holds no project record", version, projectID)
	}
	return p, nil
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, owner, unit, status, vendor string
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update descriptive fields of a project",
		Long: "Update descriptive fields of a project. The baseline is not touched; " +
			"use `wbs baseline submit` to propose baselined changes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("owner") {
				p.Owner = owner
			}
			if flags.Changed("unit") {
				p.BusinessUnit = unit
			}
			if flags.Changed("status") {
				p.Status = domain.ProjectStatus(status)
			}
			if flags.Changed("vendor") {
				p.Vendor.Name = vendor
			}
			figures.applyChanged(flags, &p.Budget, &p.Resources)

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&owner, "owner", "", "Accountable owner")
	cmd.Flags().StringVar(&unit, "unit", "", "Business unit")
	cmd.Flags().StringVar(&status, "status", "", "Status (planned|active|on_hold|closed)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Vendor name")
	figures.register(cmd.Flags())

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project and its hierarchy (baselines are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("refusing to delete project %s without --force", projectID)
			}
			if err := app.Projects.Delete(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", formatter.TruncID(projectID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion")

	return cmd
}
