package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
)

type nodeService struct {
	finalProducts repository.FinalProductRepo
	phases        repository.PhaseRepo
	deliverables  repository.DeliverableRepo
	workPackages  repository.WorkPackageRepo
	observer      UseCaseObserver
	now           func() time.Time
}

func NewNodeService(
	finalProducts repository.FinalProductRepo,
	phases repository.PhaseRepo,
	deliverables repository.DeliverableRepo,
	workPackages repository.WorkPackageRepo,
	observers ...UseCaseObserver,
) NodeService {
	return &nodeService{
		finalProducts: finalProducts,
		phases:        phases,
		deliverables:  deliverables,
		workPackages:  workPackages,
		observer:      useCaseObserverOrNoop(observers),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *nodeService) CreateFinalProduct(ctx context.Context, fp *domain.FinalProduct) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "node-create", start, nodeFields(domain.LevelFinalProduct, fp.ID), &err)
	}()

	if err := requireName("final product", fp.Name); err != nil {
		return err
	}
	if fp.ProjectID == "" {
		return &ValidationError{Field: "projectId", Message: "parent project is required"}
	}
	stamp(&fp.ID, &fp.CreatedAt, &fp.UpdatedAt, s.now())
	return s.finalProducts.Create(ctx, fp)
}

func (s *nodeService) CreatePhase(ctx context.Context, ph *domain.Phase) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "node-create", start, nodeFields(domain.LevelPhase, ph.ID), &err) }()

	if err := requireName("phase", ph.Name); err != nil {
		return err
	}
	if ph.FinalProductID == "" {
		return &ValidationError{Field: "finalProductId", Message: "parent final product is required"}
	}
	stamp(&ph.ID, &ph.CreatedAt, &ph.UpdatedAt, s.now())
	return s.phases.Create(ctx, ph)
}

// CreateDeliverable accepts either a phase id or a legacy scope list. Scope
// ids are not covered by a foreign key, so each one is checked here.
func (s *nodeService) CreateDeliverable(ctx context.Context, d *domain.Deliverable) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "node-create", start, nodeFields(domain.LevelDeliverable, d.ID), &err)
	}()

	if err := requireName("deliverable", d.Name); err != nil {
		return err
	}
	if d.PhaseID == "" && len(d.ScopeIDs) == 0 {
		return &ValidationError{Field: "phaseId", Message: "parent phase is required"}
	}
	if d.PhaseID != "" && len(d.ScopeIDs) > 0 {
		return &ValidationError{Field: "scopeIds", Message: "cannot be combined with phaseId"}
	}
	for _, id := range d.ScopeIDs {
		if _, err := s.phases.GetByID(ctx, id); err != nil {
			return fmt.Errorf("resolving scope phase: %w", err)
		}
	}
	if err := validateDates(d.Dates); err != nil {
		return err
	}
	d.Status = domain.ClampStatus(d.Status)
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt, s.now())
	return s.deliverables.Create(ctx, d)
}

func (s *nodeService) CreateWorkPackage(ctx context.Context, wp *domain.WorkPackage) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "node-create", start, nodeFields(domain.LevelWorkPackage, wp.ID), &err)
	}()

	if err := requireName("work package", wp.Name); err != nil {
		return err
	}
	if wp.DeliverableID == "" {
		return &ValidationError{Field: "deliverableId", Message: "parent deliverable is required"}
	}
	if err := validateDates(wp.Dates); err != nil {
		return err
	}
	wp.Status = domain.ClampStatus(wp.Status)
	stamp(&wp.ID, &wp.CreatedAt, &wp.UpdatedAt, s.now())
	return s.workPackages.Create(ctx, wp)
}

// UpdateDeliverableStatus stores status after ParseStatus: clamped to
// [0,100], with non-numeric input read as 0.
func (s *nodeService) UpdateDeliverableStatus(ctx context.Context, id string, status any) (_ *domain.Deliverable, err error) {
	defer observe(ctx, s.observer, "node-status", time.Now(), nodeFields(domain.LevelDeliverable, id), &err)

	d, err := s.deliverables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Status = domain.ParseStatus(status)
	d.UpdatedAt = s.now()
	if err := s.deliverables.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *nodeService) UpdateWorkPackageStatus(ctx context.Context, id string, status any) (_ *domain.WorkPackage, err error) {
	defer observe(ctx, s.observer, "node-status", time.Now(), nodeFields(domain.LevelWorkPackage, id), &err)

	wp, err := s.workPackages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wp.Status = domain.ParseStatus(status)
	wp.UpdatedAt = s.now()
	if err := s.workPackages.Update(ctx, wp); err != nil {
		return nil, err
	}
	return wp, nil
}

func (s *nodeService) GetFinalProduct(ctx context.Context, id string) (*domain.FinalProduct, error) {
	return s.finalProducts.GetByID(ctx, id)
}

func (s *nodeService) GetPhase(ctx context.Context, id string) (*domain.Phase, error) {
	return s.phases.GetByID(ctx, id)
}

func (s *nodeService) GetDeliverable(ctx context.Context, id string) (*domain.Deliverable, error) {
	return s.deliverables.GetByID(ctx, id)
}

func (s *nodeService) GetWorkPackage(ctx context.Context, id string) (*domain.WorkPackage, error) {
	return s.workPackages.GetByID(ctx, id)
}

// UpdateFinalProduct rewrites the descriptive fields and figures of an
// existing final product. The parent project is fixed at creation.
func (s *nodeService) UpdateFinalProduct(ctx context.Context, fp *domain.FinalProduct) (err error) {
	defer observe(ctx, s.observer, "node-update", time.Now(), nodeFields(domain.LevelFinalProduct, fp.ID), &err)

	if err := requireName("final product", fp.Name); err != nil {
		return err
	}
	fp.UpdatedAt = s.now()
	return s.finalProducts.Update(ctx, fp)
}

func (s *nodeService) UpdatePhase(ctx context.Context, ph *domain.Phase) (err error) {
	defer observe(ctx, s.observer, "node-update", time.Now(), nodeFields(domain.LevelPhase, ph.ID), &err)

	if err := requireName("phase", ph.Name); err != nil {
		return err
	}
	ph.UpdatedAt = s.now()
	return s.phases.Update(ctx, ph)
}

// UpdateDeliverable may also move the deliverable between parents, under the
// same phase-or-scope rule as CreateDeliverable.
func (s *nodeService) UpdateDeliverable(ctx context.Context, d *domain.Deliverable) (err error) {
	defer observe(ctx, s.observer, "node-update", time.Now(), nodeFields(domain.LevelDeliverable, d.ID), &err)

	if err := requireName("deliverable", d.Name); err != nil {
		return err
	}
	if d.PhaseID == "" && len(d.ScopeIDs) == 0 {
		return &ValidationError{Field: "phaseId", Message: "parent phase is required"}
	}
	if d.PhaseID != "" && len(d.ScopeIDs) > 0 {
		return &ValidationError{Field: "scopeIds", Message: "cannot be combined with phaseId"}
	}
	for _, id := range d.ScopeIDs {
		if _, err := s.phases.GetByID(ctx, id); err != nil {
			return fmt.Errorf("resolving scope phase: %w", err)
		}
	}
	if err := validateDates(d.Dates); err != nil {
		return err
	}
	d.Status = domain.ClampStatus(d.Status)
	d.UpdatedAt = s.now()
	return s.deliverables.Update(ctx, d)
}

func (s *nodeService) UpdateWorkPackage(ctx context.Context, wp *domain.WorkPackage) (err error) {
	defer observe(ctx, s.observer, "node-update", time.Now(), nodeFields(domain.LevelWorkPackage, wp.ID), &err)

	if err := requireName("work package", wp.Name); err != nil {
		return err
	}
	if err := validateDates(wp.Dates); err != nil {
		return err
	}
	wp.Status = domain.ClampStatus(wp.Status)
	wp.UpdatedAt = s.now()
	return s.workPackages.Update(ctx, wp)
}

// Delete removes one node; storage cascades to its descendants.
func (s *nodeService) Delete(ctx context.Context, level domain.Level, id string) (err error) {
	defer observe(ctx, s.observer, "node-delete", time.Now(), nodeFields(level, id), &err)

	switch level {
	case domain.LevelFinalProduct:
		return s.finalProducts.Delete(ctx, id)
	case domain.LevelPhase:
		return s.phases.Delete(ctx, id)
	case domain.LevelDeliverable:
		return s.deliverables.Delete(ctx, id)
	case domain.LevelWorkPackage:
		return s.workPackages.Delete(ctx, id)
	case domain.LevelProject:
		return &ValidationError{Field: "level", Message: "use the project service to delete projects"}
	}
	return &ValidationError{Field: "level", Message: fmt.Sprintf("unknown level %s", level)}
}

func nodeFields(level domain.Level, id string) map[string]any {
	return map[string]any{"level": level.String(), "node_id": id}
}
