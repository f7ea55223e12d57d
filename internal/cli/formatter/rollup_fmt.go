package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsline/internal/rollup"
)

// FormatNodeSummary renders every rollup figure of a single node in a box.
// source names where the figures came from, e.g. "live" or "baseline v3".
func FormatNodeSummary(s *rollup.NodeSummary, source string) string {
	var b strings.Builder

	b.WriteString(LevelBadge(s.Level) + " " + Bold(s.Name) + "\n")
	b.WriteString(Dim(s.ID+"  ·  "+source) + "\n\n")

	b.WriteString(fmt.Sprintf("%-12s %s\n", "Completion", RenderProgress(s.Completion, 20)))

	b.WriteString(fmt.Sprintf("%-12s %s\n", "Planned", FormatSpan(s.Timeline.StartDate, s.Timeline.EndDate)))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Actual", FormatSpan(s.Timeline.ActualStartDate, s.Timeline.ActualEndDate)))

	bv := s.Budget
	b.WriteString(fmt.Sprintf("%-12s plan %s + additional %s = %s\n", "Budget",
		FormatAmount(bv.Plan), FormatAmount(bv.Additional), FormatAmount(bv.TotalBudget)))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Spent", FormatAmount(bv.Actual)))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Variance", FormatVariance(bv)))

	r := s.Resources
	util := Dim("--")
	if r.PlanManDays != 0 {
		util = CompletionStyle(100 - abs(r.DaysUtilization-100)).Render(fmt.Sprintf("%d%%", r.DaysUtilization))
	}
	b.WriteString(fmt.Sprintf("%-12s %s of %s  %s", "Effort",
		FormatManDays(r.ActualManDays), FormatManDays(r.PlanManDays), util))

	return RenderBox("Rollup", b.String())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
