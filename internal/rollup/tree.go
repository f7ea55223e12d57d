// Package rollup computes completion, timeline, budget and resource figures
// for any node of a work-breakdown hierarchy by aggregating over its
// descendants. A Tree is built once from an EntitySet and is read-only
// afterwards, so every query is safe for concurrent use.
package rollup

import (
	"github.com/alexanderramin/wbsline/internal/domain"
)

// nodeView is the level-independent projection of an entity that the
// aggregation routines operate on.
type nodeView struct {
	id        string
	parentID  string
	name      string
	status    int
	budget    domain.Budget
	resources domain.Resources
	dates     domain.Dates
}

// levelDescriptor drives the generic recursion: which level sits below,
// and whether a childless node reports its own status as completion.
type levelDescriptor struct {
	child     domain.Level
	hasChild  bool
	ownStatus bool
	lookup    func(t *Tree, id string) (nodeView, bool)
}

var descriptors = map[domain.Level]levelDescriptor{
	domain.LevelProject: {
		child: domain.LevelFinalProduct, hasChild: true,
		lookup: func(t *Tree, id string) (nodeView, bool) {
			p, ok := t.projects[id]
			if !ok {
				return nodeView{}, false
			}
			return nodeView{id: p.ID, name: p.Name, budget: p.Budget, resources: p.Resources}, true
		},
	},
	domain.LevelFinalProduct: {
		child: domain.LevelPhase, hasChild: true,
		lookup: func(t *Tree, id string) (nodeView, bool) {
			fp, ok := t.finalProducts[id]
			if !ok {
				return nodeView{}, false
			}
			return nodeView{id: fp.ID, parentID: fp.ProjectID, name: fp.Name, budget: fp.Budget, resources: fp.Resources}, true
		},
	},
	domain.LevelPhase: {
		child: domain.LevelDeliverable, hasChild: true,
		lookup: func(t *Tree, id string) (nodeView, bool) {
			ph, ok := t.phases[id]
			if !ok {
				return nodeView{}, false
			}
			return nodeView{id: ph.ID, parentID: ph.FinalProductID, name: ph.Name, budget: ph.Budget, resources: ph.Resources}, true
		},
	},
	domain.LevelDeliverable: {
		child: domain.LevelWorkPackage, hasChild: true, ownStatus: true,
		lookup: func(t *Tree, id string) (nodeView, bool) {
			d, ok := t.deliverables[id]
			if !ok {
				return nodeView{}, false
			}
			return nodeView{
				id: d.ID, parentID: d.PhaseID, name: d.Name, status: d.Status,
				budget: d.Budget, resources: d.Resources, dates: d.Dates,
			}, true
		},
	},
	domain.LevelWorkPackage: {
		ownStatus: true,
		lookup: func(t *Tree, id string) (nodeView, bool) {
			wp, ok := t.workPackages[id]
			if !ok {
				return nodeView{}, false
			}
			return nodeView{
				id: wp.ID, parentID: wp.DeliverableID, name: wp.Name, status: wp.Status,
				budget: wp.Budget, resources: wp.Resources, dates: wp.Dates,
			}, true
		},
	},
}

// Tree is an indexed, immutable view of an EntitySet.
type Tree struct {
	set domain.EntitySet

	projects      map[string]*domain.Project
	finalProducts map[string]*domain.FinalProduct
	phases        map[string]*domain.Phase
	deliverables  map[string]*domain.Deliverable
	workPackages  map[string]*domain.WorkPackage

	// children[level][parentID] lists child ids at the level below, in input order.
	children map[domain.Level]map[string][]string
}

// NewTree copies set and indexes it. Later changes to set are not visible
// through the returned Tree.
func NewTree(set domain.EntitySet) *Tree {
	set = set.Clone()
	t := &Tree{
		set:           set,
		projects:      make(map[string]*domain.Project, len(set.Projects)),
		finalProducts: make(map[string]*domain.FinalProduct, len(set.FinalProducts)),
		phases:        make(map[string]*domain.Phase, len(set.Phases)),
		deliverables:  make(map[string]*domain.Deliverable, len(set.Deliverables)),
		workPackages:  make(map[string]*domain.WorkPackage, len(set.WorkPackages)),
		children: map[domain.Level]map[string][]string{
			domain.LevelProject:      {},
			domain.LevelFinalProduct: {},
			domain.LevelPhase:        {},
			domain.LevelDeliverable:  {},
		},
	}

	for i := range set.Projects {
		t.projects[set.Projects[i].ID] = &set.Projects[i]
	}
	for i := range set.FinalProducts {
		fp := &set.FinalProducts[i]
		t.finalProducts[fp.ID] = fp
		t.link(domain.LevelProject, fp.ProjectID, fp.ID)
	}
	for i := range set.Phases {
		ph := &set.Phases[i]
		t.phases[ph.ID] = ph
		t.link(domain.LevelFinalProduct, ph.FinalProductID, ph.ID)
	}
	for i := range set.Deliverables {
		d := &set.Deliverables[i]
		t.deliverables[d.ID] = d
		seen := make(map[string]bool)
		for _, phaseID := range d.ParentPhaseIDs() {
			if seen[phaseID] {
				continue
			}
			seen[phaseID] = true
			t.link(domain.LevelPhase, phaseID, d.ID)
		}
	}
	for i := range set.WorkPackages {
		wp := &set.WorkPackages[i]
		t.workPackages[wp.ID] = wp
		t.link(domain.LevelDeliverable, wp.DeliverableID, wp.ID)
	}
	return t
}

// FromSnapshot builds a Tree over the content captured in a baseline snapshot.
func FromSnapshot(snap *domain.BaselineSnapshot) *Tree {
	if snap == nil {
		return NewTree(domain.EntitySet{})
	}
	return NewTree(snap.Content)
}

func (t *Tree) link(parentLevel domain.Level, parentID, childID string) {
	if parentID == "" {
		return
	}
	t.children[parentLevel][parentID] = append(t.children[parentLevel][parentID], childID)
}

// Has reports whether id resolves at the given level.
func (t *Tree) Has(level domain.Level, id string) bool {
	_, ok := t.view(level, id)
	return ok
}

// Project returns a copy of the project record, if present.
func (t *Tree) Project(id string) (*domain.Project, bool) {
	p, ok := t.projects[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// ChildIDs returns the ids of the resolvable children of a node, in input order.
func (t *Tree) ChildIDs(level domain.Level, id string) []string {
	d, ok := descriptors[level]
	if !ok || !d.hasChild {
		return nil
	}
	var out []string
	for _, cid := range t.children[level][id] {
		if _, ok := descriptors[d.child].lookup(t, cid); ok {
			out = append(out, cid)
		}
	}
	return out
}

func (t *Tree) view(level domain.Level, id string) (nodeView, bool) {
	d, ok := descriptors[level]
	if !ok {
		return nodeView{}, false
	}
	return d.lookup(t, id)
}

// Subtree extracts the project and every descendant whose parent chain
// resolves to it. The result is a deep copy.
func (t *Tree) Subtree(projectID string) (domain.EntitySet, bool) {
	p, ok := t.projects[projectID]
	if !ok {
		return domain.EntitySet{}, false
	}
	out := domain.EntitySet{Projects: []domain.Project{*p}}
	seenDeliverables := make(map[string]bool)
	for _, fpID := range t.ChildIDs(domain.LevelProject, projectID) {
		out.FinalProducts = append(out.FinalProducts, *t.finalProducts[fpID])
		for _, phID := range t.ChildIDs(domain.LevelFinalProduct, fpID) {
			out.Phases = append(out.Phases, *t.phases[phID])
			for _, dID := range t.ChildIDs(domain.LevelPhase, phID) {
				if seenDeliverables[dID] {
					continue
				}
				seenDeliverables[dID] = true
				out.Deliverables = append(out.Deliverables, *t.deliverables[dID])
				for _, wpID := range t.ChildIDs(domain.LevelDeliverable, dID) {
					out.WorkPackages = append(out.WorkPackages, *t.workPackages[wpID])
				}
			}
		}
	}
	return out.Clone(), true
}
