package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Create one with `wbs project add` or `wbs import`."))
	}

	headers := []string{"ID", "NAME", "OWNER", "STATUS", "BASELINE", "APPROVAL"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			orDash(p.Owner),
			StatusPill(p.Status),
			fmt.Sprintf("v%d", p.Baseline),
			ApprovalBadge(p.ApprovalState()),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows, 4))
}

// FormatProjectReport renders a project card next to its hierarchy tree,
// followed by a per-node figures table.
func FormatProjectReport(p *domain.Project, report []rollup.NodeSummary) string {
	left := buildProjectPanel(p, report)
	right := RenderTree(TreeItemsFromReport(report))
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return top + "\n" + FormatReportTable(report)
}

func buildProjectPanel(p *domain.Project, report []rollup.NodeSummary) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "\n")
	b.WriteString(Dim(p.ID) + "\n\n")
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Status", StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Owner", orDash(p.Owner)))
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Unit", orDash(p.BusinessUnit)))
	if p.Vendor.Name != "" {
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Vendor", p.Vendor.Name))
	}
	b.WriteString(fmt.Sprintf("%-10s v%d  %s\n", "Baseline", p.Baseline, ApprovalBadge(p.ApprovalState())))
	if p.PendingChanges != nil && p.PendingChanges.Summary != "" {
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Pending", p.PendingChanges.Summary))
	}
	if len(report) > 0 {
		root := report[0]
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Complete", RenderProgress(root.Completion, 20)))
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Timeline", FormatSpan(root.Timeline.StartDate, root.Timeline.EndDate)))
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Budget", FormatVariance(root.Budget)))
	}
	for _, k := range p.KPIs {
		b.WriteString(fmt.Sprintf("%-10s %s %s\n", "KPI", k.Name, Dim(k.Target)))
	}
	return RenderBox("Project", strings.TrimRight(b.String(), "\n"))
}

// FormatReportTable renders one row of figures per node in report order.
func FormatReportTable(report []rollup.NodeSummary) string {
	headers := []string{"NODE", "LEVEL", "DONE", "START", "END", "PLAN", "ACTUAL", "VARIANCE", "DAYS"}
	rows := make([][]string, 0, len(report))
	for _, s := range report {
		rows = append(rows, []string{
			strings.Repeat("  ", s.Depth) + s.Name,
			LevelBadge(s.Level),
			CompletionStyle(s.Completion).Render(fmt.Sprintf("%d%%", s.Completion)),
			orDash(s.Timeline.StartDate),
			orDash(s.Timeline.EndDate),
			FormatAmount(s.Budget.TotalBudget),
			FormatAmount(s.Budget.Actual),
			FormatVariance(s.Budget),
			formatUtilization(s.Resources),
		})
	}
	return RenderTable(headers, rows, 2, 5, 6, 7, 8)
}

func formatUtilization(r rollup.ResourceUtilization) string {
	if r.PlanManDays == 0 && r.ActualManDays == 0 {
		return Dim("--")
	}
	return fmt.Sprintf("%s/%s", FormatManDays(r.ActualManDays), FormatManDays(r.PlanManDays))
}
