package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node below a project",
	}

	cmd.AddCommand(
		newAddFinalProductCmd(app),
		newAddPhaseCmd(app),
		newAddDeliverableCmd(app),
		newAddWorkPackageCmd(app),
	)

	return cmd
}

func printCreated(cmd *cobra.Command, level domain.Level, name, id string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s %s\n",
		formatter.LevelBadge(level), formatter.Bold(name), formatter.Dim(id))
}

func newAddFinalProductCmd(app *App) *cobra.Command {
	var project, name, description, owner string
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "final-product",
		Short: "Add a final product to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			fp := &domain.FinalProduct{
				ProjectID:   projectID,
				Name:        name,
				Description: description,
				Owner:       owner,
				Budget:      figures.budget(),
				Resources:   figures.resources(),
			}
			if err := app.Nodes.CreateFinalProduct(cmd.Context(), fp); err != nil {
				return err
			}
			printCreated(cmd, domain.LevelFinalProduct, fp.Name, fp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Parent project ID or prefix")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	figures.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAddPhaseCmd(app *App) *cobra.Command {
	var parent, name, description, owner, timeline string
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Add a phase to a final product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ph := &domain.Phase{
				FinalProductID: parent,
				Name:           name,
				Description:    description,
				Owner:          owner,
				TimelineHint:   timeline,
				Budget:         figures.budget(),
				Resources:      figures.resources(),
			}
			if err := app.Nodes.CreatePhase(cmd.Context(), ph); err != nil {
				return err
			}
			printCreated(cmd, domain.LevelPhase, ph.Name, ph.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "final-product", "", "Parent final product ID")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&timeline, "timeline", "", "Free-form timeline note, e.g. Q1")
	figures.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("final-product")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAddDeliverableCmd(app *App) *cobra.Command {
	var phase, name, description, owner, assignee, status string
	var scopes []string
	var figures figureFlags
	var dates dateFlags

	cmd := &cobra.Command{
		Use:   "deliverable",
		Short: "Add a deliverable to a phase",
		Long: "Add a deliverable to a phase. --scope may be repeated to attach the " +
			"deliverable to several phases; it cannot be combined with --phase.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &domain.Deliverable{
				PhaseID:     phase,
				ScopeIDs:    scopes,
				Name:        name,
				Description: description,
				Owner:       owner,
				Assignee:    assignee,
				Status:      domain.ParseStatus(status),
				Budget:      figures.budget(),
				Resources:   figures.resources(),
				Dates:       dates.dates(),
			}
			if err := app.Nodes.CreateDeliverable(cmd.Context(), d); err != nil {
				return err
			}
			printCreated(cmd, domain.LevelDeliverable, d.Name, d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Parent phase ID")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Phase IDs for a deliverable shared across phases")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&status, "status", "0", "Completion 0-100")
	figures.register(cmd.Flags())
	dates.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("phase", "scope")
	cmd.MarkFlagsOneRequired("phase", "scope")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAddWorkPackageCmd(app *App) *cobra.Command {
	var parent, name, description, assignee, status string
	var figures figureFlags
	var dates dateFlags

	cmd := &cobra.Command{
		Use:   "work-package",
		Short: "Add a work package to a deliverable",
		RunE: func(cmd *cobra.Command, args []string) error {
			wp := &domain.WorkPackage{
				DeliverableID: parent,
				Name:          name,
				Description:   description,
				Assignee:      assignee,
				Status:        domain.ParseStatus(status),
				Budget:        figures.budget(),
				Resources:     figures.resources(),
				Dates:         dates.dates(),
			}
			if err := app.Nodes.CreateWorkPackage(cmd.Context(), wp); err != nil {
				return err
			}
			printCreated(cmd, domain.LevelWorkPackage, wp.Name, wp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "deliverable", "", "Parent deliverable ID")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&status, "status", "0", "Completion 0-100")
	figures.register(cmd.Flags())
	dates.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("deliverable")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status LEVEL ID VALUE",
		Short: "Set the completion of a deliverable or work package",
		Long: "Set the completion of a deliverable or work package. VALUE is a number; " +
			"out-of-range values are clamped to 0-100 and non-numeric values count as 0.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := domain.ParseLevel(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch level {
			case domain.LevelDeliverable:
				d, err := app.Nodes.UpdateDeliverableStatus(ctx, args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", formatter.LevelBadge(level), formatter.Bold(d.Name), formatter.RenderProgress(d.Status, 20))
			case domain.LevelWorkPackage:
				wp, err := app.Nodes.UpdateWorkPackageStatus(ctx, args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", formatter.LevelBadge(level), formatter.Bold(wp.Name), formatter.RenderProgress(wp.Status, 20))
			default:
				return fmt.Errorf("status is derived for %s nodes; set it on deliverables or work packages", level)
			}
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove LEVEL ID",
		Short: "Remove a node and everything below it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := domain.ParseLevel(args[0])
			if err != nil {
				return err
			}
			if level == domain.LevelProject {
				return fmt.Errorf("use `wbs project delete` to remove a project")
			}
			if err := app.Nodes.Delete(cmd.Context(), level, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", formatter.LevelBadge(level), formatter.Dim(args[1]))
			return nil
		},
	}
}
