package formatter

import (
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
	"github.com/stretchr/testify/assert"
)

func TestFormatNodeSummary(t *testing.T) {
	s := &rollup.NodeSummary{
		Level:      domain.LevelDeliverable,
		ID:         "d1",
		Name:       "Spec",
		Completion: 75,
		Timeline:   rollup.Timeline{StartDate: "2024-01-01", EndDate: "2024-02-01", ActualStartDate: "2024-01-03"},
		Budget:     rollup.BudgetVariance{Plan: 150, TotalBudget: 150, Actual: 110, Variance: -40, VariancePercent: -27},
		Resources:  rollup.ResourceUtilization{PlanManDays: 10, ActualManDays: 12, DaysUtilization: 120},
	}

	out := plain(FormatNodeSummary(s, "baseline v2"))
	assert.Contains(t, out, "DEL Spec")
	assert.Contains(t, out, "baseline v2")
	assert.Contains(t, out, " 75%")
	assert.Contains(t, out, "2024-01-01 → 2024-02-01")
	assert.Contains(t, out, "2024-01-03 → --")
	assert.Contains(t, out, "= 150")
	assert.Contains(t, out, "-40 (-27%)")
	assert.Contains(t, out, "12d of 10d  120%")
}

func TestFormatNodeSummary_NoFigures(t *testing.T) {
	s := &rollup.NodeSummary{Level: domain.LevelPhase, ID: "ph", Name: "Empty"}
	out := plain(FormatNodeSummary(s, "live"))
	assert.Contains(t, out, "0d of 0d  --")
}
