package service

import (
	"context"
	"time"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/rollup"
)

type rollupService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewRollupService answers rollup queries. Each query loads its data in a
// single read transaction and indexes it into a fresh rollup.Tree.
func NewRollupService(uow db.UnitOfWork, observers ...UseCaseObserver) RollupService {
	return &rollupService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *rollupService) Summary(ctx context.Context, q RollupQuery) (summary *rollup.NodeSummary, err error) {
	fields := map[string]any{"level": q.Level.String(), "id": q.ID}
	defer observe(ctx, s.observer, "rollup-summary", time.Now(), fields, &err)

	if !q.Level.Valid() {
		return nil, &ValidationError{Field: "level", Message: "unknown level " + q.Level.String()}
	}
	tree, err := s.tree(ctx, q.ProjectID, q.Version)
	if err != nil {
		return nil, err
	}
	sum, ok := tree.Summarize(q.Level, q.ID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: q.Level.String(), ID: q.ID}
	}
	return &sum, nil
}

func (s *rollupService) Report(ctx context.Context, projectID string, version int) (report []rollup.NodeSummary, err error) {
	fields := map[string]any{FieldProjectID: projectID}
	defer observe(ctx, s.observer, "rollup-report", time.Now(), fields, &err)

	if projectID == "" {
		return nil, &ValidationError{Field: "projectId", Message: "is required"}
	}
	tree, err := s.tree(ctx, projectID, version)
	if err != nil {
		return nil, err
	}
	report = tree.Walk(projectID)
	if report == nil {
		return nil, &domain.NotFoundError{Entity: "project", ID: projectID}
	}
	return report, nil
}

// tree indexes live data, or the snapshot of projectID at version. Live
// queries without a project load every hierarchy.
func (s *rollupService) tree(ctx context.Context, projectID string, version int) (*rollup.Tree, error) {
	if version != LiveVersion && projectID == "" {
		return nil, &ValidationError{Field: "projectId", Message: "is required to read a baseline snapshot"}
	}
	var tree *rollup.Tree
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if version != LiveVersion || projectID != "" {
			t, err := loadSource(ctx, tx, projectID, version)
			tree = t
			return err
		}
		set, err := repository.LoadAll(ctx, tx)
		if err != nil {
			return storageErr("load hierarchies", err)
		}
		tree = rollup.NewTree(set)
		return nil
	})
	return tree, err
}
