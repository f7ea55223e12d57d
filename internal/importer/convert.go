package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated ImportSchema into an EntitySet ready for
// persistence. Every entity gets a fresh id; parent refs are rewritten to the
// ids assigned to their targets. Call ValidateImportSchema first.
func Convert(schema *ImportSchema, now time.Time) (domain.EntitySet, error) {
	var set domain.EntitySet
	now = now.UTC()

	projectIDs := make(map[string]string, len(schema.Projects))
	for _, p := range schema.Projects {
		project := domain.Project{
			ID:           uuid.New().String(),
			Name:         p.Name,
			Owner:        p.Owner,
			BusinessUnit: p.BusinessUnit,
			Status:       domain.ProjectStatus(domain.CoalesceStr(p.Status, string(domain.ProjectPlanned))),
			Budget:       budgetOrZero(p.Budget),
			Resources:    resourcesOrZero(p.Resources),
			Baseline:     domain.IntFromPtrWithDefault(0, p.Baseline),
			KPIs:         p.KPIs,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if p.Vendor != nil {
			project.Vendor = *p.Vendor
		}
		projectIDs[p.Ref] = project.ID
		set.Projects = append(set.Projects, project)
	}

	fpIDs := make(map[string]string, len(schema.FinalProducts))
	for _, fp := range schema.FinalProducts {
		parentID, err := resolve(projectIDs, fp.ProjectRef, "project")
		if err != nil {
			return domain.EntitySet{}, fmt.Errorf("final product %q: %w", fp.Ref, err)
		}
		id := uuid.New().String()
		fpIDs[fp.Ref] = id
		set.FinalProducts = append(set.FinalProducts, domain.FinalProduct{
			ID:          id,
			ProjectID:   parentID,
			Name:        fp.Name,
			Description: fp.Description,
			Owner:       fp.Owner,
			Budget:      budgetOrZero(fp.Budget),
			Resources:   resourcesOrZero(fp.Resources),
			KPIs:        fp.KPIs,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	phaseIDs := make(map[string]string, len(schema.Phases))
	for _, ph := range schema.Phases {
		parentID, err := resolve(fpIDs, ph.FinalProductRef, "final product")
		if err != nil {
			return domain.EntitySet{}, fmt.Errorf("phase %q: %w", ph.Ref, err)
		}
		id := uuid.New().String()
		phaseIDs[ph.Ref] = id
		set.Phases = append(set.Phases, domain.Phase{
			ID:             id,
			FinalProductID: parentID,
			Name:           ph.Name,
			Description:    ph.Description,
			Owner:          ph.Owner,
			TimelineHint:   ph.Timeline,
			Budget:         budgetOrZero(ph.Budget),
			Resources:      resourcesOrZero(ph.Resources),
			KPIs:           ph.KPIs,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	delivIDs := make(map[string]string, len(schema.Deliverables))
	for _, d := range schema.Deliverables {
		deliv := domain.Deliverable{
			ID:          uuid.New().String(),
			Name:        d.Name,
			Description: d.Description,
			Assignee:    d.Assignee,
			Owner:       d.Owner,
			Status:      domain.ParseStatus(d.Status),
			Budget:      budgetOrZero(d.Budget),
			Resources:   resourcesOrZero(d.Resources),
			Dates:       d.toDates(),
			KPIs:        d.KPIs,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if d.PhaseRef != "" {
			parentID, err := resolve(phaseIDs, d.PhaseRef, "phase")
			if err != nil {
				return domain.EntitySet{}, fmt.Errorf("deliverable %q: %w", d.Ref, err)
			}
			deliv.PhaseID = parentID
		} else {
			for _, ref := range d.ScopeRefs {
				parentID, err := resolve(phaseIDs, ref, "phase")
				if err != nil {
					return domain.EntitySet{}, fmt.Errorf("deliverable %q: %w", d.Ref, err)
				}
				deliv.ScopeIDs = append(deliv.ScopeIDs, parentID)
			}
			// A single scope is stored in the modern form.
			if len(deliv.ScopeIDs) == 1 {
				deliv.PhaseID, deliv.ScopeIDs = deliv.ScopeIDs[0], nil
			}
		}
		delivIDs[d.Ref] = deliv.ID
		set.Deliverables = append(set.Deliverables, deliv)
	}

	for _, wp := range schema.WorkPackages {
		parentID, err := resolve(delivIDs, wp.DeliverableRef, "deliverable")
		if err != nil {
			return domain.EntitySet{}, fmt.Errorf("work package %q: %w", wp.Ref, err)
		}
		set.WorkPackages = append(set.WorkPackages, domain.WorkPackage{
			ID:            uuid.New().String(),
			DeliverableID: parentID,
			Name:          wp.Name,
			Description:   wp.Description,
			Assignee:      wp.Assignee,
			Status:        domain.ParseStatus(wp.Status),
			Budget:        budgetOrZero(wp.Budget),
			Resources:     resourcesOrZero(wp.Resources),
			Dates:         wp.toDates(),
			KPIs:          wp.KPIs,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return set, nil
}

func resolve(ids map[string]string, ref, kind string) (string, error) {
	id, ok := ids[ref]
	if !ok {
		return "", fmt.Errorf("unresolved %s ref %q", kind, ref)
	}
	return id, nil
}

func (d DatesImport) toDates() domain.Dates {
	return domain.Dates{
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		ActualStartDate: d.ActualStartDate,
		ActualEndDate:   d.ActualEndDate,
	}
}

func budgetOrZero(b *domain.Budget) domain.Budget {
	if b == nil {
		return domain.Budget{}
	}
	return *b
}

func resourcesOrZero(r *domain.Resources) domain.Resources {
	if r == nil {
		return domain.Resources{}
	}
	return *r
}
