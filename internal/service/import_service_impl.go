package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/importer"
	"github.com/alexanderramin/wbsline/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates the whole document, then writes every entity in one
// transaction. Nothing is stored when any entity fails.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	fields := map[string]any{"entities": schema.Len()}
	defer observe(ctx, s.observer, "import", time.Now(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	set, err := importer.Convert(schema, time.Now())
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		for i := range set.Projects {
			if err := projects.Create(ctx, &set.Projects[i]); err != nil {
				return fmt.Errorf("creating project %q: %w", set.Projects[i].Name, err)
			}
		}
		finalProducts := repository.NewSQLiteFinalProductRepo(tx)
		for i := range set.FinalProducts {
			if err := finalProducts.Create(ctx, &set.FinalProducts[i]); err != nil {
				return fmt.Errorf("creating final product %q: %w", set.FinalProducts[i].Name, err)
			}
		}
		phases := repository.NewSQLitePhaseRepo(tx)
		for i := range set.Phases {
			if err := phases.Create(ctx, &set.Phases[i]); err != nil {
				return fmt.Errorf("creating phase %q: %w", set.Phases[i].Name, err)
			}
		}
		deliverables := repository.NewSQLiteDeliverableRepo(tx)
		for i := range set.Deliverables {
			if err := deliverables.Create(ctx, &set.Deliverables[i]); err != nil {
				return fmt.Errorf("creating deliverable %q: %w", set.Deliverables[i].Name, err)
			}
		}
		workPackages := repository.NewSQLiteWorkPackageRepo(tx)
		for i := range set.WorkPackages {
			if err := workPackages.Create(ctx, &set.WorkPackages[i]); err != nil {
				return fmt.Errorf("creating work package %q: %w", set.WorkPackages[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{
		FinalProductCount: len(set.FinalProducts),
		PhaseCount:        len(set.Phases),
		DeliverableCount:  len(set.Deliverables),
		WorkPackageCount:  len(set.WorkPackages),
	}
	for _, p := range set.Projects {
		result.ProjectIDs = append(result.ProjectIDs, p.ID)
	}
	return result, nil
}
