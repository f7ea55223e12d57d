package repository

import (
	"context"

	"github.com/alexanderramin/wbsline/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// Update writes descriptive fields only; the baseline version and the
	// pending proposal change through the approval methods below.
	Update(ctx context.Context, p *domain.Project) error
	// SubmitPending stores a proposal only while none is pending.
	SubmitPending(ctx context.Context, p *domain.Project) error
	// ClearPending drops a pending proposal, leaving the baseline untouched.
	ClearPending(ctx context.Context, p *domain.Project) error
	// CommitBaseline writes the full project row only if the stored baseline
	// still equals expectedBaseline.
	CommitBaseline(ctx context.Context, p *domain.Project, expectedBaseline int) error
	Delete(ctx context.Context, id string) error
}

type FinalProductRepo interface {
	Create(ctx context.Context, fp *domain.FinalProduct) error
	GetByID(ctx context.Context, id string) (*domain.FinalProduct, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.FinalProduct, error)
	Update(ctx context.Context, fp *domain.FinalProduct) error
	Delete(ctx context.Context, id string) error
}

type PhaseRepo interface {
	Create(ctx context.Context, ph *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	Update(ctx context.Context, ph *domain.Phase) error
	Delete(ctx context.Context, id string) error
}

type DeliverableRepo interface {
	Create(ctx context.Context, d *domain.Deliverable) error
	GetByID(ctx context.Context, id string) (*domain.Deliverable, error)
	// ListByProject includes legacy deliverables whose scope list names a
	// phase of the project.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error)
	Update(ctx context.Context, d *domain.Deliverable) error
	Delete(ctx context.Context, id string) error
}

type WorkPackageRepo interface {
	Create(ctx context.Context, wp *domain.WorkPackage) error
	GetByID(ctx context.Context, id string) (*domain.WorkPackage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error)
	Update(ctx context.Context, wp *domain.WorkPackage) error
	Delete(ctx context.Context, id string) error
}

// SnapshotRepo is an append-only store of baseline snapshots.
type SnapshotRepo interface {
	Append(ctx context.Context, s *domain.BaselineSnapshot) error
	GetByVersion(ctx context.Context, projectID string, version int) (*domain.BaselineSnapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error)
	// MaxVersion returns -1 when the project has no snapshots.
	MaxVersion(ctx context.Context, projectID string) (int, error)
}
