package service

import (
	"context"

	"github.com/alexanderramin/wbsline/internal/baseline"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/importer"
	"github.com/alexanderramin/wbsline/internal/rollup"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	// Delete removes the project and its hierarchy. Baseline history is kept.
	Delete(ctx context.Context, id string) error
}

// NodeService manages the four levels below a project.
type NodeService interface {
	CreateFinalProduct(ctx context.Context, fp *domain.FinalProduct) error
	CreatePhase(ctx context.Context, ph *domain.Phase) error
	CreateDeliverable(ctx context.Context, d *domain.Deliverable) error
	CreateWorkPackage(ctx context.Context, wp *domain.WorkPackage) error
	GetFinalProduct(ctx context.Context, id string) (*domain.FinalProduct, error)
	GetPhase(ctx context.Context, id string) (*domain.Phase, error)
	GetDeliverable(ctx context.Context, id string) (*domain.Deliverable, error)
	GetWorkPackage(ctx context.Context, id string) (*domain.WorkPackage, error)
	// The Update methods rewrite an existing node's descriptive fields,
	// figures and dates.
	UpdateFinalProduct(ctx context.Context, fp *domain.FinalProduct) error
	UpdatePhase(ctx context.Context, ph *domain.Phase) error
	UpdateDeliverable(ctx context.Context, d *domain.Deliverable) error
	UpdateWorkPackage(ctx context.Context, wp *domain.WorkPackage) error
	UpdateDeliverableStatus(ctx context.Context, id string, status any) (*domain.Deliverable, error)
	UpdateWorkPackageStatus(ctx context.Context, id string, status any) (*domain.WorkPackage, error)
	Delete(ctx context.Context, level domain.Level, id string) error
}

// LiveVersion selects current data instead of a stored snapshot.
const LiveVersion = -1

// RollupQuery addresses one node, either in live data or in the snapshot
// of ProjectID at Version.
type RollupQuery struct {
	Level     domain.Level
	ID        string
	ProjectID string
	Version   int
}

type RollupService interface {
	Summary(ctx context.Context, q RollupQuery) (*rollup.NodeSummary, error)
	// Report walks a whole project depth-first.
	Report(ctx context.Context, projectID string, version int) ([]rollup.NodeSummary, error)
}

// ApprovalResult is the committed project together with the snapshot
// recorded for its new baseline.
type ApprovalResult struct {
	Project  *domain.Project
	Snapshot *domain.BaselineSnapshot
}

type BaselineService interface {
	SubmitChangeRequest(ctx context.Context, projectID string, proposal domain.ChangeProposal) (*domain.Project, error)
	ApproveBaselineChange(ctx context.Context, projectID string) (*ApprovalResult, error)
	RejectBaselineChange(ctx context.Context, projectID string) (*domain.Project, error)
	// SetBaseline is a manual override. version must be at least 1 and
	// exceed every stored snapshot version of the project.
	SetBaseline(ctx context.Context, projectID string, version int) (*ApprovalResult, error)
	History(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error)
	Snapshot(ctx context.Context, projectID string, version int) (*domain.BaselineSnapshot, error)
	// Diff compares two versions; LiveVersion stands for current data.
	Diff(ctx context.Context, projectID string, fromVersion, toVersion int) (*baseline.Comparison, error)
}

// ImportResult holds the outcome of an entity-set import.
type ImportResult struct {
	ProjectIDs        []string
	FinalProductCount int
	PhaseCount        int
	DeliverableCount  int
	WorkPackageCount  int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
