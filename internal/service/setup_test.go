package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/testutil"
	"github.com/stretchr/testify/require"
)

// hierarchy is a seeded project with two phases under one final product.
//
//	P -> FP -> PH1 -> D1 -> W1 (100), W2 (50)
//	        -> PH2 -> D2 (status 20, no work packages)
type hierarchy struct {
	project *domain.Project
	product *domain.FinalProduct
	phase1  *domain.Phase
	phase2  *domain.Phase
	d1      *domain.Deliverable
	d2      *domain.Deliverable
	w1      *domain.WorkPackage
	w2      *domain.WorkPackage
}

func seedHierarchy(t *testing.T, database *sql.DB, opts ...testutil.ProjectOption) hierarchy {
	t.Helper()
	ctx := context.Background()

	h := hierarchy{project: testutil.NewTestProject("Platform", opts...)}
	h.product = testutil.NewTestFinalProduct(h.project.ID, "Billing")
	h.phase1 = testutil.NewTestPhase(h.product.ID, "Design")
	h.phase2 = testutil.NewTestPhase(h.product.ID, "Build")
	h.d1 = testutil.NewTestDeliverable(h.phase1.ID, "Spec")
	h.d2 = testutil.NewTestDeliverable(h.phase2.ID, "Service", testutil.WithDeliverableStatus(20))
	h.w1 = testutil.NewTestWorkPackage(h.d1.ID, "Draft",
		testutil.WithWorkPackageStatus(100),
		testutil.WithWorkPackageBudget(100, 90),
		testutil.WithManDays(10, 12),
	)
	h.w2 = testutil.NewTestWorkPackage(h.d1.ID, "Review",
		testutil.WithWorkPackageStatus(50),
		testutil.WithWorkPackageBudget(50, 20),
	)

	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, h.project))
	require.NoError(t, repository.NewSQLiteFinalProductRepo(database).Create(ctx, h.product))
	phases := repository.NewSQLitePhaseRepo(database)
	require.NoError(t, phases.Create(ctx, h.phase1))
	require.NoError(t, phases.Create(ctx, h.phase2))
	deliverables := repository.NewSQLiteDeliverableRepo(database)
	require.NoError(t, deliverables.Create(ctx, h.d1))
	require.NoError(t, deliverables.Create(ctx, h.d2))
	workPackages := repository.NewSQLiteWorkPackageRepo(database)
	require.NoError(t, workPackages.Create(ctx, h.w1))
	require.NoError(t, workPackages.Create(ctx, h.w2))
	return h
}

// recordingObserver keeps every event for later inspection.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func strPtr(s string) *string { return &s }
