package rollup

import (
	"sync"
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleSet builds P -> FP -> {PH1, PH2}; PH1 -> D1 (two work packages), PH2 -> D2 (no work packages).
func sampleSet() domain.EntitySet {
	return domain.EntitySet{
		Projects:      []domain.Project{{ID: "P", Name: "Plant upgrade"}},
		FinalProducts: []domain.FinalProduct{{ID: "FP", ProjectID: "P", Name: "Line 2"}},
		Phases: []domain.Phase{
			{ID: "PH1", FinalProductID: "FP", Name: "Design"},
			{ID: "PH2", FinalProductID: "FP", Name: "Build"},
		},
		Deliverables: []domain.Deliverable{
			{ID: "D1", PhaseID: "PH1", Name: "Drawings", Status: 5},
			{ID: "D2", PhaseID: "PH2", Name: "Frame", Status: 60},
		},
		WorkPackages: []domain.WorkPackage{
			{ID: "W1", DeliverableID: "D1", Name: "Sketch", Status: 30},
			{ID: "W2", DeliverableID: "D1", Name: "Review", Status: 50},
		},
	}
}

func TestCompletion_WorkPackageOwnStatus(t *testing.T) {
	tree := NewTree(sampleSet())
	assert.Equal(t, 30, tree.Completion(domain.LevelWorkPackage, "W1"))
}

func TestCompletion_DeliverableAveragesWorkPackages(t *testing.T) {
	tree := NewTree(sampleSet())
	assert.Equal(t, 40, tree.Completion(domain.LevelDeliverable, "D1"), "own status 5 is ignored once work packages exist")
}

func TestCompletion_DeliverableWithoutWorkPackagesUsesOwnStatus(t *testing.T) {
	set := domain.EntitySet{Deliverables: []domain.Deliverable{{ID: "D", Status: 70}}}
	tree := NewTree(set)
	assert.Equal(t, 70, tree.Completion(domain.LevelDeliverable, "D"))
}

func TestCompletion_PhasesRollUpToFinalProduct(t *testing.T) {
	tree := NewTree(sampleSet())
	assert.Equal(t, 40, tree.Completion(domain.LevelPhase, "PH1"))
	assert.Equal(t, 60, tree.Completion(domain.LevelPhase, "PH2"))
	assert.Equal(t, 50, tree.Completion(domain.LevelFinalProduct, "FP"))
	assert.Equal(t, 50, tree.Completion(domain.LevelProject, "P"))
}

func TestCompletion_RoundsPerLevelNotOverLeaves(t *testing.T) {
	// PH1 has D1=(10+11)/2 -> 11 (10.5 rounds up) and D2=100 -> 56 (55.5 rounds up).
	// A flat leaf average would be (10+11+100)/3 = 40.
	set := domain.EntitySet{
		Phases: []domain.Phase{{ID: "PH1"}},
		Deliverables: []domain.Deliverable{
			{ID: "D1", PhaseID: "PH1"},
			{ID: "D2", PhaseID: "PH1", Status: 100},
		},
		WorkPackages: []domain.WorkPackage{
			{ID: "W1", DeliverableID: "D1", Status: 10},
			{ID: "W2", DeliverableID: "D1", Status: 11},
		},
	}
	tree := NewTree(set)
	assert.Equal(t, 11, tree.Completion(domain.LevelDeliverable, "D1"))
	assert.Equal(t, 56, tree.Completion(domain.LevelPhase, "PH1"))
}

func TestCompletion_ChildlessUpperLevelsAreZero(t *testing.T) {
	set := domain.EntitySet{
		Projects:      []domain.Project{{ID: "P"}},
		FinalProducts: []domain.FinalProduct{{ID: "FP", ProjectID: "P"}},
		Phases:        []domain.Phase{{ID: "PH"}},
	}
	tree := NewTree(set)
	assert.Equal(t, 0, tree.Completion(domain.LevelProject, "EMPTY"))
	assert.Equal(t, 0, tree.Completion(domain.LevelFinalProduct, "FP"))
	assert.Equal(t, 0, tree.Completion(domain.LevelPhase, "PH"))
	assert.Equal(t, 0, tree.Completion(domain.LevelProject, "P"))
}

func TestCompletion_ClampsOutOfRangeStatus(t *testing.T) {
	set := domain.EntitySet{WorkPackages: []domain.WorkPackage{{ID: "W", Status: 140}, {ID: "N", Status: -3}}}
	tree := NewTree(set)
	assert.Equal(t, 100, tree.Completion(domain.LevelWorkPackage, "W"))
	assert.Equal(t, 0, tree.Completion(domain.LevelWorkPackage, "N"))
}

func TestCompletion_UnknownIDIsZero(t *testing.T) {
	tree := NewTree(sampleSet())
	assert.Equal(t, 0, tree.Completion(domain.LevelPhase, "missing"))
	assert.Equal(t, 0, tree.Completion(domain.Level(42), "P"))
}

func TestCompletion_OrphansExcluded(t *testing.T) {
	set := sampleSet()
	set.Deliverables = append(set.Deliverables, domain.Deliverable{ID: "ORPH", PhaseID: "ghost", Status: 100})
	set.WorkPackages = append(set.WorkPackages, domain.WorkPackage{ID: "W9", DeliverableID: "ghost", Status: 100})
	tree := NewTree(set)

	assert.Equal(t, 50, tree.Completion(domain.LevelProject, "P"))
	assert.Equal(t, 100, tree.Completion(domain.LevelDeliverable, "ORPH"), "an orphan can still be queried directly")
}

func TestCompletion_LegacyScopeIDs(t *testing.T) {
	set := domain.EntitySet{
		Phases: []domain.Phase{{ID: "PH1"}, {ID: "PH2"}},
		Deliverables: []domain.Deliverable{
			{ID: "D1", ScopeIDs: []string{"PH1", "PH2", "PH1"}, Status: 80},
			{ID: "D2", PhaseID: "PH2", Status: 20},
		},
	}
	tree := NewTree(set)
	assert.Equal(t, 80, tree.Completion(domain.LevelPhase, "PH1"), "duplicate scope ids count once")
	assert.Equal(t, 50, tree.Completion(domain.LevelPhase, "PH2"))
}

func TestTimeline_LeafReturnsOwnDates(t *testing.T) {
	set := domain.EntitySet{WorkPackages: []domain.WorkPackage{{
		ID: "W", Dates: domain.Dates{StartDate: "2025-01-01", EndDate: "2025-02-01", ActualStartDate: "2025-01-03"},
	}}}
	tree := NewTree(set)
	assert.Equal(t, Timeline{StartDate: "2025-01-01", EndDate: "2025-02-01", ActualStartDate: "2025-01-03"},
		tree.Timeline(domain.LevelWorkPackage, "W"))
}

func TestTimeline_ParentSpansChildren(t *testing.T) {
	set := domain.EntitySet{
		Deliverables: []domain.Deliverable{{ID: "D", Dates: domain.Dates{StartDate: "2020-01-01"}}},
		WorkPackages: []domain.WorkPackage{
			{ID: "W1", DeliverableID: "D", Status: 100, Dates: domain.Dates{
				StartDate: "2025-03-01", EndDate: "2025-04-01", ActualStartDate: "2025-03-02", ActualEndDate: "2025-04-03"}},
			{ID: "W2", DeliverableID: "D", Status: 100, Dates: domain.Dates{
				StartDate: "2025-02-15", EndDate: "2025-05-01", ActualEndDate: "2025-05-09"}},
			{ID: "W3", DeliverableID: "D", Status: 100},
		},
	}
	tree := NewTree(set)
	got := tree.Timeline(domain.LevelDeliverable, "D")
	assert.Equal(t, "2025-02-15", got.StartDate, "own dates are ignored once children exist")
	assert.Equal(t, "2025-05-01", got.EndDate)
	assert.Equal(t, "2025-03-02", got.ActualStartDate)
	assert.Equal(t, "2025-05-09", got.ActualEndDate)
}

func TestTimeline_ActualEndEmptyWhileAnyChildIncomplete(t *testing.T) {
	set := domain.EntitySet{
		Deliverables: []domain.Deliverable{{ID: "D"}},
		WorkPackages: []domain.WorkPackage{
			{ID: "W1", DeliverableID: "D", Status: 100, Dates: domain.Dates{ActualEndDate: "2025-04-03"}},
			{ID: "W2", DeliverableID: "D", Status: 99},
		},
	}
	tree := NewTree(set)
	assert.Empty(t, tree.Timeline(domain.LevelDeliverable, "D").ActualEndDate)
}

func TestTimeline_RollsUpThroughAllLevels(t *testing.T) {
	set := sampleSet()
	set.WorkPackages[0].Dates = domain.Dates{StartDate: "2025-01-10", EndDate: "2025-02-10"}
	set.Deliverables[1].Dates = domain.Dates{StartDate: "2025-01-05", EndDate: "2025-06-30"}
	tree := NewTree(set)

	got := tree.Timeline(domain.LevelProject, "P")
	assert.Equal(t, "2025-01-05", got.StartDate)
	assert.Equal(t, "2025-06-30", got.EndDate)
	assert.Empty(t, got.ActualEndDate)
}

func TestTimeline_UnknownIDIsEmpty(t *testing.T) {
	tree := NewTree(sampleSet())
	assert.Equal(t, Timeline{}, tree.Timeline(domain.LevelDeliverable, "nope"))
}

func TestBudgetVariance_RollupWhenOwnIsZero(t *testing.T) {
	set := domain.EntitySet{
		Phases: []domain.Phase{{ID: "PH"}},
		Deliverables: []domain.Deliverable{
			{ID: "D1", PhaseID: "PH", Budget: domain.Budget{Plan: 10000}},
			{ID: "D2", PhaseID: "PH", Budget: domain.Budget{Plan: 20000}},
		},
	}
	tree := NewTree(set)
	got := tree.BudgetVariance(domain.LevelPhase, "PH")
	assert.Equal(t, 30000.0, got.Plan)
	assert.Equal(t, 30000.0, got.TotalBudget)
	assert.Equal(t, -30000.0, got.Variance)
	assert.Equal(t, -100, got.VariancePercent)
	assert.False(t, got.IsOverBudget)
}

func TestBudgetVariance_OwnFiguresOverrideChildren(t *testing.T) {
	set := domain.EntitySet{
		Phases: []domain.Phase{{ID: "PH", Budget: domain.Budget{Plan: 1000, Actual: 1200, Additional: 100}}},
		Deliverables: []domain.Deliverable{
			{ID: "D1", PhaseID: "PH", Budget: domain.Budget{Plan: 99999}},
		},
	}
	tree := NewTree(set)
	got := tree.BudgetVariance(domain.LevelPhase, "PH")
	assert.Equal(t, 1000.0, got.Plan)
	assert.Equal(t, 1100.0, got.TotalBudget)
	assert.Equal(t, 100.0, got.Variance)
	assert.Equal(t, 9, got.VariancePercent)
	assert.True(t, got.IsOverBudget)
}

func TestBudgetVariance_RecursiveRollup(t *testing.T) {
	set := sampleSet()
	set.WorkPackages[0].Budget = domain.Budget{Plan: 100, Actual: 50}
	set.WorkPackages[1].Budget = domain.Budget{Plan: 300, Actual: 350, Additional: 20}
	set.Deliverables[1].Budget = domain.Budget{Plan: 600, Actual: 700}
	tree := NewTree(set)

	got := tree.BudgetVariance(domain.LevelProject, "P")
	assert.Equal(t, 1000.0, got.Plan)
	assert.Equal(t, 1100.0, got.Actual)
	assert.Equal(t, 20.0, got.Additional)
	assert.Equal(t, 1020.0, got.TotalBudget)
	assert.Equal(t, 80.0, got.Variance)
	assert.Equal(t, 8, got.VariancePercent)
}

func TestBudgetVariance_ZeroTotalHasZeroPercent(t *testing.T) {
	set := domain.EntitySet{WorkPackages: []domain.WorkPackage{{ID: "W", Budget: domain.Budget{Actual: 500}}}}
	tree := NewTree(set)
	got := tree.BudgetVariance(domain.LevelWorkPackage, "W")
	assert.Equal(t, 0.0, got.TotalBudget)
	assert.Equal(t, 0, got.VariancePercent)
	assert.True(t, got.IsOverBudget)
}

func TestResourceUtilization(t *testing.T) {
	set := domain.EntitySet{
		Projects: []domain.Project{{ID: "P"}},
		FinalProducts: []domain.FinalProduct{
			{ID: "FP1", ProjectID: "P", Resources: domain.Resources{PlanManDays: 40, ActualManDays: 30}},
			{ID: "FP2", ProjectID: "P", Resources: domain.Resources{PlanManDays: 60, ActualManDays: 75}},
		},
	}
	tree := NewTree(set)
	got := tree.ResourceUtilization(domain.LevelProject, "P")
	assert.Equal(t, 100.0, got.PlanManDays)
	assert.Equal(t, 105.0, got.ActualManDays)
	assert.Equal(t, 105, got.DaysUtilization)

	set.Projects[0].Resources = domain.Resources{PlanManDays: 10}
	own := NewTree(set).ResourceUtilization(domain.LevelProject, "P")
	assert.Equal(t, 10.0, own.PlanManDays)
	assert.Equal(t, 0, own.DaysUtilization)
}

func TestResourceUtilization_ZeroPlan(t *testing.T) {
	set := domain.EntitySet{WorkPackages: []domain.WorkPackage{{ID: "W", Resources: domain.Resources{ActualManDays: 3}}}}
	got := NewTree(set).ResourceUtilization(domain.LevelWorkPackage, "W")
	assert.Equal(t, 0, got.DaysUtilization)
}

func TestOwnOrRollup(t *testing.T) {
	called := false
	rollup := func() domain.Budget {
		called = true
		return domain.Budget{Plan: 5}
	}

	got := OwnOrRollup(domain.Budget{Actual: 1}, rollup)
	assert.Equal(t, domain.Budget{Actual: 1}, got)
	assert.False(t, called, "rollup is not evaluated when own figures exist")

	got = OwnOrRollup(domain.Budget{}, rollup)
	assert.Equal(t, domain.Budget{Plan: 5}, got)
	assert.True(t, called)
}

func TestQueries_Idempotent(t *testing.T) {
	tree := NewTree(sampleSet())
	first := tree.Walk("P")
	second := tree.Walk("P")
	assert.Equal(t, first, second)
}

func TestNewTree_IsolatedFromCallerMutation(t *testing.T) {
	set := sampleSet()
	tree := NewTree(set)
	set.WorkPackages[0].Status = 100
	set.WorkPackages[1].Status = 100

	assert.Equal(t, 40, tree.Completion(domain.LevelDeliverable, "D1"))
}

func TestTree_ConcurrentReads(t *testing.T) {
	tree := NewTree(sampleSet())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := tree.Completion(domain.LevelProject, "P"); got != 50 {
					t.Errorf("completion = %d, want 50", got)
					return
				}
				_ = tree.BudgetVariance(domain.LevelProject, "P")
				_ = tree.Timeline(domain.LevelProject, "P")
			}
		}()
	}
	wg.Wait()
}

func TestWalk_DepthFirstOrder(t *testing.T) {
	tree := NewTree(sampleSet())
	nodes := tree.Walk("P")
	require.Len(t, nodes, 8)

	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"P", "FP", "PH1", "D1", "W1", "W2", "PH2", "D2"}, ids)
	assert.Equal(t, 4, nodes[4].Depth)
	assert.Equal(t, "D1", nodes[4].ParentID)
	assert.Nil(t, tree.Walk("missing"))
}

func TestSubtree(t *testing.T) {
	set := sampleSet()
	set.Projects = append(set.Projects, domain.Project{ID: "OTHER"})
	set.FinalProducts = append(set.FinalProducts, domain.FinalProduct{ID: "FPX", ProjectID: "OTHER"})
	tree := NewTree(set)

	sub, ok := tree.Subtree("P")
	require.True(t, ok)
	assert.Len(t, sub.Projects, 1)
	assert.Len(t, sub.FinalProducts, 1)
	assert.Len(t, sub.Phases, 2)
	assert.Len(t, sub.Deliverables, 2)
	assert.Len(t, sub.WorkPackages, 2)

	_, ok = tree.Subtree("nope")
	assert.False(t, ok)
}
