package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project-create", time.Now(), map[string]any{"name": p.Name}, &err)

	if err := requireName("project", p.Name); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanned
	}
	if !domain.ValidProjectStatuses[string(p.Status)] {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown project status %q", p.Status)}
	}
	if p.Baseline < 0 {
		return &ValidationError{Field: "baseline", Message: "must be >= 0"}
	}
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, time.Now().UTC())
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// Update writes descriptive fields only. The baseline and any pending
// proposal are owned by the approval workflow.
func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := requireName("project", p.Name); err != nil {
		return err
	}
	if !domain.ValidProjectStatuses[string(p.Status)] {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown project status %q", p.Status)}
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Delete removes the project row, which cascades through final products,
// phases, deliverables and work packages. Legacy deliverables reach the
// project only through their scope list, so the ones scoped entirely inside
// it are removed explicitly first. Snapshots are retained.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project-delete", time.Now(), map[string]any{FieldProjectID: id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		set, err := repository.LoadEntitySet(ctx, tx, id)
		if err != nil {
			return err
		}
		phases := make(map[string]bool, len(set.Phases))
		for _, ph := range set.Phases {
			phases[ph.ID] = true
		}
		deliverables := repository.NewSQLiteDeliverableRepo(tx)
		for _, d := range set.Deliverables {
			if d.PhaseID != "" || !allIn(d.ScopeIDs, phases) {
				continue
			}
			if err := deliverables.Delete(ctx, d.ID); err != nil {
				return fmt.Errorf("deleting legacy deliverable %s: %w", d.ID, err)
			}
		}
		return repository.NewSQLiteProjectRepo(tx).Delete(ctx, id)
	})
}

func allIn(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}
