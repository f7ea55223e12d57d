package cli

import (
	"fmt"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit a node below a project",
		Long: "Edit a node below a project. Only the flags given are changed; " +
			"passing an empty value clears a text field or date.",
	}

	cmd.AddCommand(
		newUpdateFinalProductCmd(app),
		newUpdatePhaseCmd(app),
		newUpdateDeliverableCmd(app),
		newUpdateWorkPackageCmd(app),
	)

	return cmd
}

func printUpdated(cmd *cobra.Command, level domain.Level, name, id string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s %s\n",
		formatter.LevelBadge(level), formatter.Bold(name), formatter.Dim(id))
}

// textFlags binds the descriptive string flags that a level supports.
type textFlags map[string]*string

func (t textFlags) register(fs *pflag.FlagSet, usage map[string]string) {
	for name, dst := range t {
		fs.StringVar(dst, name, "", usage[name])
	}
}

func (t textFlags) apply(fs *pflag.FlagSet, targets map[string]*string) {
	for name, dst := range targets {
		if fs.Changed(name) {
			*dst = *t[name]
		}
	}
}

var textUsage = map[string]string{
	"name":        "Name",
	"description": "Description",
	"owner":       "Owner",
	"assignee":    "Assignee",
	"timeline":    "Free-form timeline note, e.g. Q1",
}

func newTextFlags(names ...string) textFlags {
	t := make(textFlags, len(names))
	for _, n := range names {
		t[n] = new(string)
	}
	return t
}

func newUpdateFinalProductCmd(app *App) *cobra.Command {
	text := newTextFlags("name", "description", "owner")
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "final-product ID",
		Short: "Edit a final product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fp, err := app.Nodes.GetFinalProduct(ctx, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			text.apply(flags, map[string]*string{
				"name":        &fp.Name,
				"description": &fp.Description,
				"owner":       &fp.Owner,
			})
			figures.applyChanged(flags, &fp.Budget, &fp.Resources)

			if err := app.Nodes.UpdateFinalProduct(ctx, fp); err != nil {
				return err
			}
			printUpdated(cmd, domain.LevelFinalProduct, fp.Name, fp.ID)
			return nil
		},
	}

	text.register(cmd.Flags(), textUsage)
	figures.register(cmd.Flags())

	return cmd
}

func newUpdatePhaseCmd(app *App) *cobra.Command {
	text := newTextFlags("name", "description", "owner", "timeline")
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "phase ID",
		Short: "Edit a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ph, err := app.Nodes.GetPhase(ctx, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			text.apply(flags, map[string]*string{
				"name":        &ph.Name,
				"description": &ph.Description,
				"owner":       &ph.Owner,
				"timeline":    &ph.TimelineHint,
			})
			figures.applyChanged(flags, &ph.Budget, &ph.Resources)

			if err := app.Nodes.UpdatePhase(ctx, ph); err != nil {
				return err
			}
			printUpdated(cmd, domain.LevelPhase, ph.Name, ph.ID)
			return nil
		},
	}

	text.register(cmd.Flags(), textUsage)
	figures.register(cmd.Flags())

	return cmd
}

func newUpdateDeliverableCmd(app *App) *cobra.Command {
	text := newTextFlags("name", "description", "owner", "assignee")
	var phase, status string
	var scopes []string
	var figures figureFlags
	var dates dateFlags

	cmd := &cobra.Command{
		Use:   "deliverable ID",
		Short: "Edit a deliverable",
		Long: "Edit a deliverable. --phase or --scope moves it to other parents; " +
			"the two cannot be combined.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := app.Nodes.GetDeliverable(ctx, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			text.apply(flags, map[string]*string{
				"name":        &d.Name,
				"description": &d.Description,
				"owner":       &d.Owner,
				"assignee":    &d.Assignee,
			})
			if flags.Changed("phase") {
				d.PhaseID, d.ScopeIDs = phase, nil
			}
			if flags.Changed("scope") {
				d.PhaseID, d.ScopeIDs = "", scopes
			}
			if flags.Changed("status") {
				d.Status = domain.ParseStatus(status)
			}
			figures.applyChanged(flags, &d.Budget, &d.Resources)
			dates.applyChanged(flags, &d.Dates)

			if err := app.Nodes.UpdateDeliverable(ctx, d); err != nil {
				return err
			}
			printUpdated(cmd, domain.LevelDeliverable, d.Name, d.ID)
			return nil
		},
	}

	text.register(cmd.Flags(), textUsage)
	cmd.Flags().StringVar(&phase, "phase", "", "New parent phase ID")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "New phase IDs for a deliverable shared across phases")
	cmd.Flags().StringVar(&status, "status", "", "Completion 0-100")
	figures.register(cmd.Flags())
	dates.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("phase", "scope")

	return cmd
}

func newUpdateWorkPackageCmd(app *App) *cobra.Command {
	text := newTextFlags("name", "description", "assignee")
	var status string
	var figures figureFlags
	var dates dateFlags

	cmd := &cobra.Command{
		Use:   "work-package ID",
		Short: "Edit a work package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wp, err := app.Nodes.GetWorkPackage(ctx, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			text.apply(flags, map[string]*string{
				"name":        &wp.Name,
				"description": &wp.Description,
				"assignee":    &wp.Assignee,
			})
			if flags.Changed("status") {
				wp.Status = domain.ParseStatus(status)
			}
			figures.applyChanged(flags, &wp.Budget, &wp.Resources)
			dates.applyChanged(flags, &wp.Dates)

			if err := app.Nodes.UpdateWorkPackage(ctx, wp); err != nil {
				return err
			}
			printUpdated(cmd, domain.LevelWorkPackage, wp.Name, wp.ID)
			return nil
		},
	}

	text.register(cmd.Flags(), textUsage)
	cmd.Flags().StringVar(&status, "status", "", "Completion 0-100")
	figures.register(cmd.Flags())
	dates.register(cmd.Flags())

	return cmd
}
