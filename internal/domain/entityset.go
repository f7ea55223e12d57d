package domain

import "time"

// EntitySet is the full, flat content of one or more project hierarchies:
// five typed lists linked by parent ids.
type EntitySet struct {
	Projects      []Project      `json:"projects"`
	FinalProducts []FinalProduct `json:"finalProducts"`
	Phases        []Phase        `json:"phases"`
	Deliverables  []Deliverable  `json:"deliverables"`
	WorkPackages  []WorkPackage  `json:"workPackages"`
}

// Len returns the total number of entities across all five lists.
func (s EntitySet) Len() int {
	return len(s.Projects) + len(s.FinalProducts) + len(s.Phases) + len(s.Deliverables) + len(s.WorkPackages)
}

// Clone returns a deep copy so that neither side can observe the other's mutations.
func (s EntitySet) Clone() EntitySet {
	out := EntitySet{
		Projects:      make([]Project, 0, len(s.Projects)),
		FinalProducts: make([]FinalProduct, 0, len(s.FinalProducts)),
		Phases:        make([]Phase, 0, len(s.Phases)),
		Deliverables:  make([]Deliverable, 0, len(s.Deliverables)),
		WorkPackages:  make([]WorkPackage, 0, len(s.WorkPackages)),
	}
	for i := range s.Projects {
		out.Projects = append(out.Projects, *s.Projects[i].Clone())
	}
	for _, fp := range s.FinalProducts {
		fp.KPIs = cloneKPIs(fp.KPIs)
		out.FinalProducts = append(out.FinalProducts, fp)
	}
	for _, ph := range s.Phases {
		ph.KPIs = cloneKPIs(ph.KPIs)
		out.Phases = append(out.Phases, ph)
	}
	for _, d := range s.Deliverables {
		d.KPIs = cloneKPIs(d.KPIs)
		if d.ScopeIDs != nil {
			d.ScopeIDs = append([]string(nil), d.ScopeIDs...)
		}
		out.Deliverables = append(out.Deliverables, d)
	}
	for _, wp := range s.WorkPackages {
		wp.KPIs = cloneKPIs(wp.KPIs)
		out.WorkPackages = append(out.WorkPackages, wp)
	}
	return out
}

// BaselineSnapshot is an immutable, versioned copy of a project subtree.
type BaselineSnapshot struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Content   EntitySet `json:"content"`
}

// Project returns the captured project record, or nil if the content is empty.
func (b *BaselineSnapshot) Project() *Project {
	for i := range b.Content.Projects {
		if b.Content.Projects[i].ID == b.ProjectID {
			return &b.Content.Projects[i]
		}
	}
	return nil
}
