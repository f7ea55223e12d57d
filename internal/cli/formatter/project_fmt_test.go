package formatter

import (
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
	"github.com/stretchr/testify/assert"
)

func TestFormatProjectList(t *testing.T) {
	projects := []*domain.Project{
		{ID: "11111111-aaaa", Name: "ERP Rollout", Owner: "dana", Status: domain.ProjectActive, Baseline: 2},
		{ID: "22222222-bbbb", Name: "Data Lake", Status: domain.ProjectPlanned,
			PendingChanges: &domain.ChangeProposal{Summary: "extend scope"}},
	}

	out := plain(FormatProjectList(projects))
	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, "ERP Rollout")
	assert.Contains(t, out, "11111111")
	assert.NotContains(t, out, "11111111-aaaa")
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "PENDING APPROVAL")
	assert.Contains(t, out, "CLEAN")
}

func TestFormatProjectList_Empty(t *testing.T) {
	assert.Contains(t, plain(FormatProjectList(nil)), "No projects yet")
}

func TestFormatProjectReport(t *testing.T) {
	p := &domain.Project{ID: "p", Name: "Platform", Status: domain.ProjectActive, Baseline: 1,
		KPIs: []domain.KPI{{Name: "Uptime", Target: "99.9%"}}}
	report := sampleReport()
	report[0].Budget = rollup.BudgetVariance{Plan: 150, TotalBudget: 150, Actual: 110, Variance: -40, VariancePercent: -27}
	report[0].Timeline = rollup.Timeline{StartDate: "2024-01-01", EndDate: "2024-03-31"}

	out := plain(FormatProjectReport(p, report))
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "Uptime")
	assert.Contains(t, out, "2024-01-01 → 2024-03-31")
	assert.Contains(t, out, "-40 (-27%)")
	assert.Contains(t, out, "Review")
	assert.Contains(t, out, "VARIANCE")
}

func TestFormatReportTable_RightAlignsFigures(t *testing.T) {
	report := []rollup.NodeSummary{
		{Level: domain.LevelProject, Name: "A", Completion: 5},
		{Level: domain.LevelFinalProduct, Name: "B", Depth: 1, Completion: 100},
	}
	out := plain(FormatReportTable(report))
	assert.Contains(t, out, "  5%")
	assert.Contains(t, out, "100%")
}
