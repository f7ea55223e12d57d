package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/wbsline/internal/baseline"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatHistory(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	snaps := []*domain.BaselineSnapshot{
		{ID: "s2", ProjectID: "p", Version: 2, CreatedAt: at, Content: domain.EntitySet{
			Projects: []domain.Project{{ID: "p", Name: "Platform v2"}},
		}},
		{ID: "s1", ProjectID: "p", Version: 1, CreatedAt: at.Add(-time.Hour)},
	}
	out := plain(FormatHistory(snaps))
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "Platform v2")
	assert.Contains(t, out, "2024-05-01 10:00 UTC")
	assert.Contains(t, out, "2024-05-01 09:00 UTC")

	assert.Contains(t, plain(FormatHistory(nil)), "No baselines")
}

func TestFormatProposal(t *testing.T) {
	name := "Platform v2"
	p := &domain.Project{Name: "Platform", PendingChanges: &domain.ChangeProposal{
		Summary:     "rename",
		RequestedBy: "sam",
		Patch:       domain.ProjectPatch{Name: &name, Budget: &domain.Budget{Plan: 2000}},
	}}
	out := plain(FormatProposal(p))
	assert.Contains(t, out, "PENDING APPROVAL")
	assert.Contains(t, out, "rename")
	assert.Contains(t, out, "sam")
	assert.Contains(t, out, "name → Platform v2")
	assert.Contains(t, out, "budget → plan 2,000")

	p.PendingChanges = nil
	assert.Contains(t, plain(FormatProposal(p)), "CLEAN")
}

func TestFormatApproval(t *testing.T) {
	p := &domain.Project{Name: "Platform", Baseline: 3}
	snap := &domain.BaselineSnapshot{ID: "abcdef123456", Version: 3}
	out := plain(FormatApproval(p, snap))
	assert.Contains(t, out, "baseline v3")
	assert.Contains(t, out, "abcdef12")
}

func TestFormatComparison(t *testing.T) {
	c := &baseline.Comparison{ProjectID: "p", Deltas: []baseline.NodeDelta{
		{Kind: baseline.ChangeUpdated, Level: domain.LevelWorkPackage, ID: "w2",
			Before: &baseline.Figures{Name: "Review", Completion: 50, Plan: 50},
			After:  &baseline.Figures{Name: "Review", Completion: 100, Plan: 50}},
		{Kind: baseline.ChangeAdded, Level: domain.LevelWorkPackage, ID: "w3",
			After: &baseline.Figures{Name: "Deploy", Completion: 0}},
		{Kind: baseline.ChangeRemoved, Level: domain.LevelDeliverable, ID: "d2",
			Before: &baseline.Figures{Name: "Code", Completion: 20}},
	}}
	out := plain(FormatComparison(c, "v1", "live"))
	assert.Contains(t, out, "V1 → LIVE")
	assert.Contains(t, out, "50% → 100%")
	assert.Contains(t, out, "Deploy")
	assert.Contains(t, out, "Code")
	assert.Contains(t, out, "1 added · 1 removed · 1 changed")

	empty := &baseline.Comparison{ProjectID: "p"}
	assert.Contains(t, plain(FormatComparison(empty, "v1", "v2")), "No differences")
}
