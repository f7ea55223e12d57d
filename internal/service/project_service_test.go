package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateDefaults(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	p := &domain.Project{Name: "Data Platform", Owner: "cio"}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, domain.ProjectPlanned, p.Status, "status should default to planned")
	assert.Equal(t, 0, p.Baseline)
	assert.Equal(t, domain.StateClean, p.ApprovalState())

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Platform", fetched.Name)
	assert.Equal(t, "cio", fetched.Owner)
}

func TestProjectService_CreateValidation(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	tests := []struct {
		name    string
		project *domain.Project
	}{
		{"missing name", &domain.Project{}},
		{"blank name", &domain.Project{Name: "   "}},
		{"unknown status", &domain.Project{Name: "X", Status: "paused"}},
		{"negative baseline", &domain.Project{Name: "X", Baseline: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(ctx, tc.project)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_UpdateLeavesBaselineAlone(t *testing.T) {
	database := testutil.NewTestDB(t)
	h := seedHierarchy(t, database, testutil.WithBaseline(4))
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	p, err := svc.GetByID(ctx, h.project.ID)
	require.NoError(t, err)
	p.Owner = "new owner"
	p.Baseline = 99
	require.NoError(t, svc.Update(ctx, p))

	fetched, err := svc.GetByID(ctx, h.project.ID)
	require.NoError(t, err)
	assert.Equal(t, "new owner", fetched.Owner)
	assert.Equal(t, 4, fetched.Baseline, "baselines change only through the approval workflow")
}

func TestProjectService_DeleteCascadesAndKeepsSnapshots(t *testing.T) {
	database := testutil.NewTestDB(t)
	h := seedHierarchy(t, database)
	other := seedHierarchy(t, database)
	uow := testutil.NewTestUoW(database)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), uow)
	nodes := newTestNodeService(database)
	ctx := context.Background()

	inside := testutil.NewTestDeliverable("", "Inside", testutil.WithScopeIDs(h.phase1.ID, h.phase2.ID))
	require.NoError(t, nodes.CreateDeliverable(ctx, inside))
	spanning := testutil.NewTestDeliverable("", "Spanning", testutil.WithScopeIDs(h.phase1.ID, other.phase1.ID))
	require.NoError(t, nodes.CreateDeliverable(ctx, spanning))

	_, err := NewBaselineService(uow).SetBaseline(ctx, h.project.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, h.project.ID))

	_, err = svc.GetByID(ctx, h.project.ID)
	assert.True(t, domain.IsNotFound(err))

	deliverables := repository.NewSQLiteDeliverableRepo(database)
	_, err = deliverables.GetByID(ctx, h.d1.ID)
	assert.True(t, domain.IsNotFound(err), "phase-linked deliverables cascade")
	_, err = deliverables.GetByID(ctx, inside.ID)
	assert.True(t, domain.IsNotFound(err), "legacy deliverable scoped only to the project is removed")
	_, err = deliverables.GetByID(ctx, spanning.ID)
	assert.NoError(t, err, "legacy deliverable still scoped to another project survives")

	_, err = repository.NewSQLiteWorkPackageRepo(database).GetByID(ctx, h.w1.ID)
	assert.True(t, domain.IsNotFound(err))

	snap, err := repository.NewSQLiteSnapshotRepo(database).GetByVersion(ctx, h.project.ID, 0)
	require.NoError(t, err, "baseline history is retained")
	assert.Equal(t, h.project.ID, snap.ProjectID)

	_, err = svc.GetByID(ctx, other.project.ID)
	assert.NoError(t, err)

	err = svc.Delete(ctx, h.project.ID)
	assert.True(t, domain.IsNotFound(err))
}
