package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsline/internal/baseline"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// FormatHistory renders the stored baseline snapshots of a project, newest first.
func FormatHistory(snaps []*domain.BaselineSnapshot) string {
	if len(snaps) == 0 {
		return RenderBox("Baseline history", Dim("No baselines recorded yet."))
	}
	headers := []string{"VERSION", "RECORDED", "NAME", "ENTITIES"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		name := "--"
		if p := s.Project(); p != nil {
			name = p.Name
		}
		rows = append(rows, []string{
			Bold(fmt.Sprintf("v%d", s.Version)),
			HumanTimestamp(s.CreatedAt),
			name,
			fmt.Sprintf("%d", s.Content.Len()),
		})
	}
	return RenderBox("Baseline history", RenderTable(headers, rows, 0, 3))
}

// FormatApproval renders the outcome of an approval or override.
func FormatApproval(p *domain.Project, snap *domain.BaselineSnapshot) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ ") + Bold(p.Name) + " is now at baseline " + Bold(fmt.Sprintf("v%d", p.Baseline)) + "\n")
	if snap != nil {
		b.WriteString(Dim(fmt.Sprintf("snapshot %s · %d entities · %s",
			TruncID(snap.ID), snap.Content.Len(), HumanTimestamp(snap.CreatedAt))) + "\n")
	}
	return b.String()
}

// FormatProposal renders the pending change request of a project.
func FormatProposal(p *domain.Project) string {
	if p.PendingChanges == nil {
		return fmt.Sprintf("%s %s\n", ApprovalBadge(p.ApprovalState()), Bold(p.Name))
	}
	pc := p.PendingChanges
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", ApprovalBadge(p.ApprovalState()), Bold(p.Name)))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "Summary", orDash(pc.Summary)))
	if pc.RequestedBy != "" {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", "By", pc.RequestedBy))
	}
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "At", HumanTimestamp(pc.RequestedAt)))
	for _, line := range patchLines(pc.Patch) {
		b.WriteString("  " + StyleBlue.Render("~ ") + line + "\n")
	}
	return b.String()
}

func patchLines(pp domain.ProjectPatch) []string {
	var out []string
	if pp.Name != nil {
		out = append(out, "name → "+*pp.Name)
	}
	if pp.Owner != nil {
		out = append(out, "owner → "+*pp.Owner)
	}
	if pp.BusinessUnit != nil {
		out = append(out, "business unit → "+*pp.BusinessUnit)
	}
	if pp.Status != nil {
		out = append(out, "status → "+string(*pp.Status))
	}
	if pp.Budget != nil {
		out = append(out, fmt.Sprintf("budget → plan %s, additional %s",
			FormatAmount(pp.Budget.Plan), FormatAmount(pp.Budget.Additional)))
	}
	if pp.Resources != nil {
		out = append(out, "planned effort → "+FormatManDays(pp.Resources.PlanManDays))
	}
	if pp.Vendor != nil {
		out = append(out, "vendor → "+pp.Vendor.Name)
	}
	return out
}

// FormatComparison renders the deltas between two versions of a project.
func FormatComparison(c *baseline.Comparison, fromLabel, toLabel string) string {
	title := fmt.Sprintf("%s → %s", fromLabel, toLabel)
	if len(c.Deltas) == 0 {
		return RenderBox(title, Dim("No differences."))
	}

	headers := []string{"", "LEVEL", "NODE", "DONE", "PLAN", "ACTUAL", "END"}
	rows := make([][]string, 0, len(c.Deltas))
	for _, d := range c.Deltas {
		rows = append(rows, []string{
			changeMarker(d.Kind),
			LevelBadge(d.Level),
			deltaName(d),
			deltaInt(d, func(f *baseline.Figures) int { return f.Completion }, "%d%%"),
			deltaAmount(d, func(f *baseline.Figures) float64 { return f.Plan }),
			deltaAmount(d, func(f *baseline.Figures) float64 { return f.Actual }),
			deltaStr(d, func(f *baseline.Figures) string { return f.EndDate }),
		})
	}

	summary := fmt.Sprintf("%d added · %d removed · %d changed",
		c.Count(baseline.ChangeAdded), c.Count(baseline.ChangeRemoved), c.Count(baseline.ChangeUpdated))
	return RenderBox(title, RenderTable(headers, rows)+"\n"+Dim(summary))
}

func changeMarker(k baseline.ChangeKind) string {
	switch k {
	case baseline.ChangeAdded:
		return StyleGreen.Render("+")
	case baseline.ChangeRemoved:
		return StyleRed.Render("-")
	default:
		return StyleYellow.Render("~")
	}
}

func deltaName(d baseline.NodeDelta) string {
	if d.After != nil {
		return d.After.Name
	}
	if d.Before != nil {
		return d.Before.Name
	}
	return d.ID
}

func deltaStr(d baseline.NodeDelta, get func(*baseline.Figures) string) string {
	var before, after string
	if d.Before != nil {
		before = get(d.Before)
	}
	if d.After != nil {
		after = get(d.After)
	}
	return pairText(d, orDash(before), orDash(after), before == after)
}

func deltaInt(d baseline.NodeDelta, get func(*baseline.Figures) int, layout string) string {
	var before, after int
	if d.Before != nil {
		before = get(d.Before)
	}
	if d.After != nil {
		after = get(d.After)
	}
	return pairText(d, fmt.Sprintf(layout, before), fmt.Sprintf(layout, after), before == after)
}

func deltaAmount(d baseline.NodeDelta, get func(*baseline.Figures) float64) string {
	var before, after float64
	if d.Before != nil {
		before = get(d.Before)
	}
	if d.After != nil {
		after = get(d.After)
	}
	return pairText(d, FormatAmount(before), FormatAmount(after), before == after)
}

// pairText shows a single value for added, removed or unchanged figures and
// "before → after" otherwise.
func pairText(d baseline.NodeDelta, before, after string, same bool) string {
	switch {
	case d.Before == nil:
		return after
	case d.After == nil:
		return Dim(before)
	case same:
		return Dim(after)
	}
	return before + " → " + StyleYellow.Render(after)
}
