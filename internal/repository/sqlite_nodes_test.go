package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	project     *domain.Project
	product     *domain.FinalProduct
	phase       *domain.Phase
	deliverable *domain.Deliverable
	workPackage *domain.WorkPackage
}

func seedHierarchy(t *testing.T, conn *sql.DB, name string) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{project: testutil.NewTestProject(name)}
	s.product = testutil.NewTestFinalProduct(s.project.ID, name+" product")
	s.phase = testutil.NewTestPhase(s.product.ID, name+" phase")
	s.deliverable = testutil.NewTestDeliverable(s.phase.ID, name+" deliverable", testutil.WithDeliverableStatus(20))
	s.workPackage = testutil.NewTestWorkPackage(s.deliverable.ID, name+" wp",
		testutil.WithWorkPackageStatus(60),
		testutil.WithWorkPackageBudget(100, 80),
		testutil.WithWorkPackageDates("2025-01-01", "2025-02-01", "2025-01-02", ""),
	)

	require.NoError(t, NewSQLiteProjectRepo(conn).Create(ctx, s.project))
	require.NoError(t, NewSQLiteFinalProductRepo(conn).Create(ctx, s.product))
	require.NoError(t, NewSQLitePhaseRepo(conn).Create(ctx, s.phase))
	require.NoError(t, NewSQLiteDeliverableRepo(conn).Create(ctx, s.deliverable))
	require.NoError(t, NewSQLiteWorkPackageRepo(conn).Create(ctx, s.workPackage))
	return s
}

func TestFinalProductRepo_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	s := seedHierarchy(t, db, "FP")
	repo := NewSQLiteFinalProductRepo(db)

	fetched, err := repo.GetByID(ctx, s.product.ID)
	require.NoError(t, err)
	assert.Equal(t, s.project.ID, fetched.ProjectID)

	fetched.Budget = domain.Budget{Plan: 5000}
	fetched.KPIs = []domain.KPI{{Name: "yield"}}
	require.NoError(t, repo.Update(ctx, fetched))

	list, err := repo.ListByProject(ctx, s.project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5000.0, list[0].Budget.Plan)
	assert.Equal(t, "yield", list[0].KPIs[0].Name)

	require.NoError(t, repo.Delete(ctx, s.product.ID))
	_, err = repo.GetByID(ctx, s.product.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestFinalProductRepo_RequiresProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFinalProductRepo(db)

	err := repo.Create(context.Background(), testutil.NewTestFinalProduct("no-such-project", "Stray"))
	assert.Error(t, err, "foreign key should reject an unknown project")
}

func TestPhaseRepo_ListByProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	a := seedHierarchy(t, db, "A")
	seedHierarchy(t, db, "B")
	repo := NewSQLitePhaseRepo(db)

	extra := testutil.NewTestPhase(a.product.ID, "A second phase")
	extra.TimelineHint = "Q3"
	require.NoError(t, repo.Create(ctx, extra))

	list, err := repo.ListByProject(ctx, a.project.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, ph := range list {
		assert.Equal(t, a.product.ID, ph.FinalProductID)
	}

	fetched, err := repo.GetByID(ctx, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q3", fetched.TimelineHint)
}

func TestDeliverableRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	s := seedHierarchy(t, db, "D")
	repo := NewSQLiteDeliverableRepo(db)

	fetched, err := repo.GetByID(ctx, s.deliverable.ID)
	require.NoError(t, err)
	assert.Equal(t, s.phase.ID, fetched.PhaseID)
	assert.Nil(t, fetched.ScopeIDs)
	assert.Equal(t, 20, fetched.Status)

	fetched.Status = 150
	fetched.Dates = domain.Dates{StartDate: "2025-03-01", EndDate: "2025-04-01"}
	require.NoError(t, repo.Update(ctx, fetched))

	again, err := repo.GetByID(ctx, s.deliverable.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, again.Status, "status is clamped on write")
	assert.Equal(t, "2025-03-01", again.StartDate)
}

func TestDeliverableRepo_LegacyScopeIncludedInProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	a := seedHierarchy(t, db, "A")
	b := seedHierarchy(t, db, "B")
	repo := NewSQLiteDeliverableRepo(db)

	phase2 := testutil.NewTestPhase(a.product.ID, "A phase 2")
	require.NoError(t, NewSQLitePhaseRepo(db).Create(ctx, phase2))

	legacy := testutil.NewTestDeliverable("", "Shared", testutil.WithScopeIDs(a.phase.ID, phase2.ID))
	require.NoError(t, repo.Create(ctx, legacy))

	listA, err := repo.ListByProject(ctx, a.project.ID)
	require.NoError(t, err)
	assert.Len(t, listA, 2)

	listB, err := repo.ListByProject(ctx, b.project.ID)
	require.NoError(t, err)
	assert.Len(t, listB, 1)

	fetched, err := repo.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.PhaseID)
	assert.Equal(t, []string{a.phase.ID, phase2.ID}, fetched.ScopeIDs)
}

func TestWorkPackageRepo_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	s := seedHierarchy(t, db, "W")
	repo := NewSQLiteWorkPackageRepo(db)

	fetched, err := repo.GetByID(ctx, s.workPackage.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, fetched.Status)
	assert.Equal(t, domain.Budget{Plan: 100, Actual: 80}, fetched.Budget)
	assert.Equal(t, "2025-01-02", fetched.ActualStartDate)
	assert.Empty(t, fetched.ActualEndDate)

	fetched.Status = 100
	fetched.ActualEndDate = "2025-02-03"
	require.NoError(t, repo.Update(ctx, fetched))

	list, err := repo.ListByProject(ctx, s.project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 100, list[0].Status)
	assert.Equal(t, "2025-02-03", list[0].ActualEndDate)

	require.NoError(t, repo.Delete(ctx, s.workPackage.ID))
	assert.True(t, domain.IsNotFound(repo.Delete(ctx, s.workPackage.ID)))
}
