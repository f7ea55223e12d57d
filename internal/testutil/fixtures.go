package testutil

import (
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/google/uuid"
)

// now is truncated to whole seconds so fixtures survive an RFC3339 round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectBudget(plan, actual, additional float64) ProjectOption {
	return func(p *domain.Project) {
		p.Budget = domain.Budget{Plan: plan, Actual: actual, Additional: additional}
	}
}

func WithBaseline(v int) ProjectOption {
	return func(p *domain.Project) {
		p.Baseline = v
	}
}

func WithPendingChanges(summary string) ProjectOption {
	return func(p *domain.Project) {
		p.PendingChanges = &domain.ChangeProposal{Summary: summary, RequestedAt: now()}
	}
}

func WithOwner(owner string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = owner
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:           uuid.New().String(),
		Name:         name,
		Owner:        "pmo",
		BusinessUnit: "engineering",
		Status:       domain.ProjectActive,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FinalProduct options
type FinalProductOption func(*domain.FinalProduct)

func WithFinalProductBudget(plan, actual float64) FinalProductOption {
	return func(fp *domain.FinalProduct) {
		fp.Budget = domain.Budget{Plan: plan, Actual: actual}
	}
}

func NewTestFinalProduct(projectID, name string, opts ...FinalProductOption) *domain.FinalProduct {
	ts := now()
	fp := &domain.FinalProduct{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(fp)
	}
	return fp
}

type PhaseOption func(*domain.Phase)

func WithPhaseBudget(plan, actual float64) PhaseOption {
	return func(ph *domain.Phase) {
		ph.Budget = domain.Budget{Plan: plan, Actual: actual}
	}
}

func NewTestPhase(finalProductID, name string, opts ...PhaseOption) *domain.Phase {
	ts := now()
	ph := &domain.Phase{
		ID:             uuid.New().String(),
		FinalProductID: finalProductID,
		Name:           name,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	for _, opt := range opts {
		opt(ph)
	}
	return ph
}

type DeliverableOption func(*domain.Deliverable)

func WithDeliverableStatus(s int) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.Status = s
	}
}

func WithDeliverableBudget(plan, actual float64) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.Budget = domain.Budget{Plan: plan, Actual: actual}
	}
}

// WithScopeIDs links the deliverable through the legacy scope list instead of a phase.
func WithScopeIDs(ids ...string) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.PhaseID = ""
		d.ScopeIDs = ids
	}
}

func WithDeliverableDates(start, end string) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.StartDate = start
		d.EndDate = end
	}
}

func NewTestDeliverable(phaseID, name string, opts ...DeliverableOption) *domain.Deliverable {
	ts := now()
	d := &domain.Deliverable{
		ID:        uuid.New().String(),
		PhaseID:   phaseID,
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type WorkPackageOption func(*domain.WorkPackage)

func WithWorkPackageStatus(s int) WorkPackageOption {
	return func(wp *domain.WorkPackage) {
		wp.Status = s
	}
}

func WithWorkPackageBudget(plan, actual float64) WorkPackageOption {
	return func(wp *domain.WorkPackage) {
		wp.Budget = domain.Budget{Plan: plan, Actual: actual}
	}
}

func WithWorkPackageDates(start, end, actualStart, actualEnd string) WorkPackageOption {
	return func(wp *domain.WorkPackage) {
		wp.Dates = domain.Dates{StartDate: start, EndDate: end, ActualStartDate: actualStart, ActualEndDate: actualEnd}
	}
}

func WithManDays(plan, actual float64) WorkPackageOption {
	return func(wp *domain.WorkPackage) {
		wp.Resources = domain.Resources{PlanManDays: plan, ActualManDays: actual}
	}
}

func NewTestWorkPackage(deliverableID, name string, opts ...WorkPackageOption) *domain.WorkPackage {
	ts := now()
	wp := &domain.WorkPackage{
		ID:            uuid.New().String(),
		DeliverableID: deliverableID,
		Name:          name,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}
