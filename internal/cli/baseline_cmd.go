package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/wbsline/internal/cli/formatter"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/service"
	"github.com/spf13/cobra"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Propose, approve and inspect project baselines",
	}

	cmd.AddCommand(
		newBaselineSubmitCmd(app),
		newBaselinePendingCmd(app),
		newBaselineApproveCmd(app),
		newBaselineRejectCmd(app),
		newBaselineSetCmd(app),
		newBaselineHistoryCmd(app),
		newBaselineDiffCmd(app),
	)

	return cmd
}

func newBaselineSubmitCmd(app *App) *cobra.Command {
	var summary, by string
	var name, owner, unit, status, vendor string
	var figures figureFlags

	cmd := &cobra.Command{
		Use:   "submit ID",
		Short: "Submit a change request against the current baseline",
		Long: "Submit a change request. Field flags describe the proposed edits; they " +
			"are applied to the project only when the request is approved.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.ProjectPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("owner") {
				patch.Owner = &owner
			}
			if flags.Changed("unit") {
				patch.BusinessUnit = &unit
			}
			if flags.Changed("status") {
				st := domain.ProjectStatus(status)
				patch.Status = &st
			}
			if flags.Changed("vendor") {
				patch.Vendor = &domain.Vendor{Name: vendor}
			}
			if figuresChanged(cmd) {
				current, err := app.Projects.GetByID(ctx, projectID)
				if err != nil {
					return err
				}
				b, r := current.Budget, current.Resources
				figures.applyChanged(flags, &b, &r)
				if b != current.Budget {
					patch.Budget = &b
				}
				if r != current.Resources {
					patch.Resources = &r
				}
			}

			p, err := app.Baselines.SubmitChangeRequest(ctx, projectID, domain.ChangeProposal{
				Summary:     summary,
				RequestedBy: by,
				Patch:       patch,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposal(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "What the change is about")
	cmd.Flags().StringVar(&by, "by", "", "Requester")
	cmd.Flags().StringVar(&name, "name", "", "Proposed project name")
	cmd.Flags().StringVar(&owner, "owner", "", "Proposed owner")
	cmd.Flags().StringVar(&unit, "unit", "", "Proposed business unit")
	cmd.Flags().StringVar(&status, "status", "", "Proposed status")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Proposed vendor name")
	figures.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

func figuresChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"budget-plan", "budget-actual", "budget-additional", "plan-days", "actual-days"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func newBaselinePendingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pending ID",
		Short: "Show the pending change request of a project",
		Args:  cobra.ExactArgs(1),
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposal(p))
			return nil
		},
	}
}

func newBaselineApproveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve the pending change request and record a new baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Baselines.ApproveBaselineChange(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApproval(res.Project, res.Snapshot))
			return nil
		},
	}
}

func newBaselineRejectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reject ID",
		Short: "Discard the pending change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Baselines.RejectBaselineChange(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rejected change request; %s stays at baseline v%d\n", formatter.Bold(p.Name), p.Baseline)
			return nil
		},
	}
}

func newBaselineSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set ID VERSION",
		Short: "Override the baseline version (must exceed every stored version)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			version, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[1], err)
			}
			res, err := app.Baselines.SetBaseline(ctx, projectID, version)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApproval(res.Project, res.Snapshot))
			return nil
		},
	}
}

func newBaselineHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "List stored baseline snapshots, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			snaps, err := app.Baselines.History(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(snaps))
			return nil
		},
	}
}

func newBaselineDiffCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "diff ID",
		Short: "Compare two baseline versions, or a version against live data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("from") {
				p, err := app.Projects.GetByID(ctx, projectID)
				if err != nil {
					return err
				}
				from = p.Baseline
			}
			cmp, err := app.Baselines.Diff(ctx, projectID, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatComparison(cmp, versionLabel(from), versionLabel(to)))
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Source version (defaults to the current baseline)")
	cmd.Flags().IntVar(&to, "to", service.LiveVersion, "Target version (defaults to live data)")

	return cmd
}

func versionLabel(v int) string {
	if v == service.LiveVersion {
		return "live"
	}
	return fmt.Sprintf("v%d", v)
}
