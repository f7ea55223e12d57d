package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/wbsline/internal/importer"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImportSchema() *importer.ImportSchema {
	return &importer.ImportSchema{
		Projects: []importer.ProjectImport{{Ref: "p", Name: "Warehouse", Status: "active"}},
		FinalProducts: []importer.FinalProductImport{
			{Ref: "fp", ProjectRef: "p", Name: "Racking"},
		},
		Phases: []importer.PhaseImport{
			{Ref: "ph1", FinalProductRef: "fp", Name: "Survey"},
			{Ref: "ph2", FinalProductRef: "fp", Name: "Install"},
		},
		Deliverables: []importer.DeliverableImport{
			{Ref: "d1", PhaseRef: "ph1", Name: "Floor plan"},
			{Ref: "d2", ScopeRefs: []string{"ph1", "ph2"}, Name: "Safety sign-off", Status: "30"},
		},
		WorkPackages: []importer.WorkPackageImport{
			{Ref: "w1", DeliverableRef: "d1", Name: "Measure", Status: float64(100)},
			{Ref: "w2", DeliverableRef: "d1", Name: "Draw", Status: float64(40)},
		},
	}
}

func TestImportService_ImportSchema(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	svc := NewImportService(uow)
	ctx := context.Background()

	result, err := svc.ImportSchema(ctx, validImportSchema())
	require.NoError(t, err)
	require.Len(t, result.ProjectIDs, 1)
	assert.Equal(t, 1, result.FinalProductCount)
	assert.Equal(t, 2, result.PhaseCount)
	assert.Equal(t, 2, result.DeliverableCount)
	assert.Equal(t, 2, result.WorkPackageCount)

	report, err := NewRollupService(uow).Report(ctx, result.ProjectIDs[0], LiveVersion)
	require.NoError(t, err)
	// Survey: (70 + 30) / 2, Install: 30, product: (50 + 30) / 2.
	assert.Equal(t, 40, report[0].Completion)
	assert.Equal(t, "Warehouse", report[0].Name)
}

func TestImportService_ImportFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewImportService(testutil.NewTestUoW(database))

	result, err := svc.ImportFile(context.Background(), "../importer/testdata/portfolio.json")
	require.NoError(t, err)
	assert.Len(t, result.ProjectIDs, 1)
	assert.Equal(t, 2, result.WorkPackageCount)

	_, err = svc.ImportFile(context.Background(), "testdata/missing.json")
	assert.Error(t, err)
}

func TestImportService_RejectsUnresolvedRefs(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewImportService(testutil.NewTestUoW(database))
	ctx := context.Background()

	schema := validImportSchema()
	schema.WorkPackages[1].DeliverableRef = "ghost"
	schema.Deliverables[0].Status = float64(120)

	_, err := svc.ImportSchema(ctx, schema)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "2 errors")
	assert.Contains(t, err.Error(), `ref "ghost" not found in deliverables`)

	list, err := repository.NewSQLiteProjectRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportService_RollbackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// Execs run project, final product, phase, phase, deliverable, ...
	// Fail on the second phase so earlier rows exist inside the transaction.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 4,
		Err:    errors.New("injected phase create failure"),
	}
	svc := NewImportService(failUoW)

	_, err := svc.ImportSchema(ctx, validImportSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected phase create failure")
	assert.Contains(t, err.Error(), `creating phase "Install"`)

	list, err := repository.NewSQLiteProjectRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "no projects should exist after rollback")

	set, err := repository.LoadAll(ctx, database)
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}
