package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestConvert_MinimalSchema(t *testing.T) {
	set, err := Convert(validMinimalSchema(), importTime)
	require.NoError(t, err)

	require.Len(t, set.Projects, 1)
	require.Len(t, set.FinalProducts, 1)
	require.Len(t, set.Phases, 1)
	require.Len(t, set.Deliverables, 1)
	require.Len(t, set.WorkPackages, 1)

	p := set.Projects[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.ProjectPlanned, p.Status)
	assert.Equal(t, 0, p.Baseline)
	assert.Nil(t, p.PendingChanges)
	assert.True(t, p.CreatedAt.Equal(importTime))

	assert.Equal(t, p.ID, set.FinalProducts[0].ProjectID)
	assert.Equal(t, set.FinalProducts[0].ID, set.Phases[0].FinalProductID)
	assert.Equal(t, set.Phases[0].ID, set.Deliverables[0].PhaseID)
	assert.Equal(t, set.Deliverables[0].ID, set.WorkPackages[0].DeliverableID)
}

func TestConvert_FromFile(t *testing.T) {
	schema, err := LoadImportSchema("testdata/portfolio.json")
	require.NoError(t, err)
	require.Empty(t, ValidateImportSchema(schema))

	set, err := Convert(schema, importTime)
	require.NoError(t, err)

	p := set.Projects[0]
	assert.Equal(t, "ERP Rollout", p.Name)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.Equal(t, domain.Budget{Plan: 1000}, p.Budget)
	assert.Equal(t, "Acme", p.Vendor.Name)
	require.Len(t, p.KPIs, 1)

	design, build := set.Phases[0], set.Phases[1]
	assert.Equal(t, "Q1", design.TimelineHint)

	spec, shared := set.Deliverables[0], set.Deliverables[1]
	assert.Equal(t, design.ID, spec.PhaseID)
	assert.Equal(t, 80, spec.Status)
	assert.Equal(t, "2024-01-01", spec.StartDate)

	assert.Empty(t, shared.PhaseID)
	assert.Equal(t, []string{design.ID, build.ID}, shared.ScopeIDs)
	assert.Equal(t, 40, shared.Status, "numeric strings are parsed")

	require.Len(t, set.WorkPackages, 2)
	assert.Equal(t, domain.Resources{PlanManDays: 5, ActualManDays: 6}, set.WorkPackages[0].Resources)
	assert.Equal(t, "2024-01-20", set.WorkPackages[1].EndDate)
}

func TestConvert_SingleScopeBecomesPhase(t *testing.T) {
	s := validMinimalSchema()
	s.Deliverables[0].PhaseRef = ""
	s.Deliverables[0].ScopeRefs = []string{"ph"}

	set, err := Convert(s, importTime)
	require.NoError(t, err)

	assert.Equal(t, set.Phases[0].ID, set.Deliverables[0].PhaseID)
	assert.Nil(t, set.Deliverables[0].ScopeIDs)
}

func TestConvert_AssignsFreshIDs(t *testing.T) {
	a, err := Convert(validMinimalSchema(), importTime)
	require.NoError(t, err)
	b, err := Convert(validMinimalSchema(), importTime)
	require.NoError(t, err)

	assert.NotEqual(t, a.Projects[0].ID, b.Projects[0].ID)
	assert.NotEqual(t, a.WorkPackages[0].ID, b.WorkPackages[0].ID)
}

func TestConvert_UnresolvedRef(t *testing.T) {
	s := validMinimalSchema()
	s.WorkPackages[0].DeliverableRef = "missing"

	_, err := Convert(s, importTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unresolved deliverable ref "missing"`)
}
