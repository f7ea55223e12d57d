package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// LoadEntitySet reads one project and its whole hierarchy through conn.
// Passing a transaction yields a consistent view for snapshotting.
func LoadEntitySet(ctx context.Context, conn db.DBTX, projectID string) (domain.EntitySet, error) {
	var set domain.EntitySet

	p, err := NewSQLiteProjectRepo(conn).GetByID(ctx, projectID)
	if err != nil {
		return set, err
	}
	set.Projects = []domain.Project{*p}

	fps, err := NewSQLiteFinalProductRepo(conn).ListByProject(ctx, projectID)
	if err != nil {
		return set, fmt.Errorf("loading final products: %w", err)
	}
	for _, fp := range fps {
		set.FinalProducts = append(set.FinalProducts, *fp)
	}

	phases, err := NewSQLitePhaseRepo(conn).ListByProject(ctx, projectID)
	if err != nil {
		return set, fmt.Errorf("loading phases: %w", err)
	}
	for _, ph := range phases {
		set.Phases = append(set.Phases, *ph)
	}

	deliverables, err := NewSQLiteDeliverableRepo(conn).ListByProject(ctx, projectID)
	if err != nil {
		return set, fmt.Errorf("loading deliverables: %w", err)
	}
	for _, d := range deliverables {
		set.Deliverables = append(set.Deliverables, *d)
	}

	wps, err := NewSQLiteWorkPackageRepo(conn).ListByProject(ctx, projectID)
	if err != nil {
		return set, fmt.Errorf("loading work packages: %w", err)
	}
	for _, wp := range wps {
		set.WorkPackages = append(set.WorkPackages, *wp)
	}
	return set, nil
}

// LoadAll reads every project hierarchy. Orphaned rows are not returned.
func LoadAll(ctx context.Context, conn db.DBTX) (domain.EntitySet, error) {
	var all domain.EntitySet
	projects, err := NewSQLiteProjectRepo(conn).List(ctx)
	if err != nil {
		return all, err
	}
	seenDeliverable := make(map[string]bool)
	seenWorkPackage := make(map[string]bool)
	for _, p := range projects {
		set, err := LoadEntitySet(ctx, conn, p.ID)
		if err != nil {
			return all, fmt.Errorf("loading project %s: %w", p.ID, err)
		}
		all.Projects = append(all.Projects, set.Projects...)
		all.FinalProducts = append(all.FinalProducts, set.FinalProducts...)
		all.Phases = append(all.Phases, set.Phases...)
		// Legacy deliverables may span projects.
		for _, d := range set.Deliverables {
			if !seenDeliverable[d.ID] {
				seenDeliverable[d.ID] = true
				all.Deliverables = append(all.Deliverables, d)
			}
		}
		for _, wp := range set.WorkPackages {
			if !seenWorkPackage[wp.ID] {
				seenWorkPackage[wp.ID] = true
				all.WorkPackages = append(all.WorkPackages, wp)
			}
		}
	}
	return all, nil
}
