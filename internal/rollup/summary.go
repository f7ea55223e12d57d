package rollup

import "github.com/alexanderramin/wbsline/internal/domain"

// NodeSummary bundles the four rollup figures for one node.
type NodeSummary struct {
	Level      domain.Level
	ID         string
	ParentID   string
	Name       string
	Depth      int
	Completion int
	Timeline   Timeline
	Budget     BudgetVariance
	Resources  ResourceUtilization
}

// Summarize computes every metric for a single node. ok is false when the
// id does not resolve at that level.
func (t *Tree) Summarize(level domain.Level, id string) (NodeSummary, bool) {
	v, ok := t.view(level, id)
	if !ok {
		return NodeSummary{}, false
	}
	return t.summarize(level, v, v.parentID, int(level)), true
}

func (t *Tree) summarize(level domain.Level, v nodeView, parentID string, depth int) NodeSummary {
	s := NodeSummary{
		Level:      level,
		ID:         v.id,
		ParentID:   parentID,
		Name:       v.name,
		Depth:      depth,
		Completion: t.completion(level, v),
		Timeline:   t.timeline(level, v),
		Budget:     newBudgetVariance(t.budget(level, v)),
		Resources:  newResourceUtilization(t.resources(level, v)),
	}
	return s
}

// Walk returns summaries for a project and all of its descendants in
// depth-first order. A deliverable linked to several phases through the
// legacy scope list appears under each of them.
func (t *Tree) Walk(projectID string) []NodeSummary {
	v, ok := t.view(domain.LevelProject, projectID)
	if !ok {
		return nil
	}
	var out []NodeSummary
	var visit func(level domain.Level, v nodeView, parentID string, depth int)
	visit = func(level domain.Level, v nodeView, parentID string, depth int) {
		out = append(out, t.summarize(level, v, parentID, depth))
		d := descriptors[level]
		for _, k := range t.childViews(level, v.id) {
			visit(d.child, k, v.id, depth+1)
		}
	}
	visit(domain.LevelProject, v, "", 0)
	return out
}
