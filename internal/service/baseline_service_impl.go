package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/wbsline/internal/baseline"
	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/rollup"
)

type baselineService struct {
	uow      db.UnitOfWork
	locks    *keyedMutex
	now      func() time.Time
	observer UseCaseObserver
}

// NewBaselineService builds the approval workflow. Every command runs in one
// transaction obtained from uow and holds a per-project lock.
func NewBaselineService(uow db.UnitOfWork, observers ...UseCaseObserver) BaselineService {
	return &baselineService{
		uow:      uow,
		locks:    newKeyedMutex(),
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *baselineService) SubmitChangeRequest(ctx context.Context, projectID string, proposal domain.ChangeProposal) (project *domain.Project, err error) {
	fields := map[string]any{FieldProjectID: projectID}
	defer observe(ctx, s.observer, "baseline-submit", time.Now(), fields, &err)

	if st := proposal.Patch.Status; st != nil && !domain.ValidProjectStatuses[string(*st)] {
		return nil, &ValidationError{Field: "patch.status", Message: "unknown project status " + string(*st)}
	}

	unlock := s.locks.Lock(projectID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		p, err := projects.GetByID(ctx, projectID)
		if err != nil {
			return storageErr("load project", err)
		}
		if err := p.SubmitChange(proposal, s.now()); err != nil {
			return err
		}
		if err := projects.SubmitPending(ctx, p); err != nil {
			return storageErr("store change request", err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *baselineService) ApproveBaselineChange(ctx context.Context, projectID string) (result *ApprovalResult, err error) {
	fields := map[string]any{FieldProjectID: projectID}
	defer observe(ctx, s.observer, "baseline-approve", time.Now(), fields, &err)

	unlock := s.locks.Lock(projectID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
		if err != nil {
			return storageErr("load project", err)
		}
		expected := p.Baseline
		now := s.now()
		if _, err := p.ApproveChange(now); err != nil {
			return err
		}
		result, err = s.commit(ctx, tx, p, expected, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields[FieldBaselineVersion] = result.Project.Baseline
	return result, nil
}

func (s *baselineService) RejectBaselineChange(ctx context.Context, projectID string) (project *domain.Project, err error) {
	fields := map[string]any{FieldProjectID: projectID}
	defer observe(ctx, s.observer, "baseline-reject", time.Now(), fields, &err)

	unlock := s.locks.Lock(projectID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		p, err := projects.GetByID(ctx, projectID)
		if err != nil {
			return storageErr("load project", err)
		}
		if err := p.RejectChange(s.now()); err != nil {
			return err
		}
		if err := projects.ClearPending(ctx, p); err != nil {
			return storageErr("clear change request", err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *baselineService) SetBaseline(ctx context.Context, projectID string, version int) (result *ApprovalResult, err error) {
	fields := map[string]any{FieldProjectID: projectID, "requested_version": version}
	defer observe(ctx, s.observer, "baseline-set", time.Now(), fields, &err)

	unlock := s.locks.Lock(projectID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
		if err != nil {
			return storageErr("load project", err)
		}
		maxVersion, err := repository.NewSQLiteSnapshotRepo(tx).MaxVersion(ctx, projectID)
		if err != nil {
			return storageErr("read snapshot history", err)
		}
		if version <= maxVersion {
			return &domain.InvalidStateError{
				ProjectID: projectID,
				State:     p.ApprovalState(),
				Op:        "set baseline to a version not above the latest snapshot",
			}
		}
		expected := p.Baseline
		now := s.now()
		if err := p.OverrideBaseline(version, now); err != nil {
			return err
		}
		result, err = s.commit(ctx, tx, p, expected, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields[FieldBaselineVersion] = result.Project.Baseline
	return result, nil
}

// commit snapshots the post-transition project and then writes the project
// row with a compare-and-set on its previous baseline. Both writes share tx.
func (s *baselineService) commit(ctx context.Context, tx db.DBTX, p *domain.Project, expectedBaseline int, now time.Time) (*ApprovalResult, error) {
	set, err := repository.LoadEntitySet(ctx, tx, p.ID)
	if err != nil {
		return nil, storageErr("load project hierarchy", err)
	}
	set.Projects[0] = *p.Clone()

	snap, err := baseline.BuildSnapshot(rollup.NewTree(set), p.ID, p.Baseline, now)
	if err != nil {
		return nil, err
	}
	if err := repository.NewSQLiteSnapshotRepo(tx).Append(ctx, snap); err != nil {
		return nil, storageErr("append snapshot", err)
	}
	if err := repository.NewSQLiteProjectRepo(tx).CommitBaseline(ctx, p, expectedBaseline); err != nil {
		return nil, storageErr("commit baseline", err)
	}
	return &ApprovalResult{Project: p, Snapshot: snap}, nil
}

func (s *baselineService) History(ctx context.Context, projectID string) (snaps []*domain.BaselineSnapshot, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		snaps, err = repository.NewSQLiteSnapshotRepo(tx).ListByProject(ctx, projectID)
		return storageErr("list snapshots", err)
	})
	return snaps, err
}

func (s *baselineService) Snapshot(ctx context.Context, projectID string, version int) (snap *domain.BaselineSnapshot, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err = repository.NewSQLiteSnapshotRepo(tx).GetByVersion(ctx, projectID, version)
		return storageErr("load snapshot", err)
	})
	return snap, err
}

func (s *baselineService) Diff(ctx context.Context, projectID string, fromVersion, toVersion int) (cmp *baseline.Comparison, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		from, err := loadSource(ctx, tx, projectID, fromVersion)
		if err != nil {
			return err
		}
		to, err := loadSource(ctx, tx, projectID, toVersion)
		if err != nil {
			return err
		}
		cmp, err = baseline.Diff(from, to, projectID)
		return err
	})
	return cmp, err
}

// loadSource indexes either the live hierarchy or a stored snapshot.
func loadSource(ctx context.Context, tx db.DBTX, projectID string, version int) (*rollup.Tree, error) {
	if version == LiveVersion {
		set, err := repository.LoadEntitySet(ctx, tx, projectID)
		if err != nil {
			return nil, storageErr("load project hierarchy", err)
		}
		return rollup.NewTree(set), nil
	}
	snap, err := repository.NewSQLiteSnapshotRepo(tx).GetByVersion(ctx, projectID, version)
	if err != nil {
		return nil, storageErr("load snapshot", err)
	}
	return rollup.FromSnapshot(snap), nil
}

// storageErr passes lookup misses through and marks every other storage
// failure as retryable. A nil err stays nil.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
